// Package yaml loads importer configuration from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/blogimport"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the file at path over the default configuration.
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (*blogimport.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, blogimport.Errorf(blogimport.ENOTFOUND, "config file %s not found", path)
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (*blogimport.Config, error) {
	cfg := blogimport.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, blogimport.Errorf(blogimport.EINVALID, "parsing config: %v", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
