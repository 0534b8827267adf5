package blogimport

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Link prefixes for the blog section before and after migration.
const (
	LegacyBlogPrefix = "/en_us/blog/"
	BlogPrefix       = "/prod/en-us/blog/"
)

var nonPathChars = regexp.MustCompile(`[^a-z0-9/]+`)

// DocumentPath derives the output path for a page URL: the URL path is
// lowercased, a trailing ".html" is stripped, every run of characters outside
// [a-z0-9/] becomes one dash, a trailing slash maps to an "index" segment and
// no segment starts or ends with a dash.
//
//	https://site.example/en_us/Blog/My Post!.html -> /en-us/blog/my-post
func DocumentPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid page URL %q: %v", rawURL, err)
	}

	p := u.Path
	if p == "" {
		p = "/"
	}
	if strings.HasSuffix(p, "/") {
		p += "index"
	}
	p = strings.ToLower(p)
	p = strings.TrimSuffix(p, ".html")
	p = nonPathChars.ReplaceAllString(p, "-")

	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	kept := segments[:0]
	for _, s := range segments {
		if s = strings.Trim(s, "-"); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "/index", nil
	}
	return "/" + strings.Join(kept, "/"), nil
}

// RewriteLink maps a legacy blog link to its migrated location:
//
//	/en_us/blog/foo.html -> /prod/en-us/blog/foo
//
// Absolute links on legacyHost are rewritten the same way and made relative.
// Any other href is returned unchanged with ok set to false.
func RewriteLink(href, legacyHost string) (rewritten string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href, false
	}
	if u.Host != "" && !strings.EqualFold(u.Host, legacyHost) {
		return href, false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return href, false
	}
	if !strings.HasPrefix(u.Path, LegacyBlogPrefix) {
		return href, false
	}

	rest := strings.TrimSuffix(strings.TrimPrefix(u.Path, LegacyBlogPrefix), ".html")
	out := &url.URL{
		Path:     BlogPrefix + rest,
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}
	return out.String(), true
}

// FragmentPath returns the path of the shared fragment page a link points
// at: /<locale>/blog/fragments/<slug>, where slug is the link's last path
// segment without ".html".
func FragmentPath(locale, href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	slug := path.Base(strings.TrimSuffix(p, ".html"))
	return "/" + locale + "/blog/fragments/" + slug
}

// LocalePath converts a legacy page path to its migrated form by replacing
// the en_us locale segment and dropping ".html".
//
//	/en_us/blog/author/jdoe.html -> /en-us/blog/author/jdoe
func LocalePath(p string) string {
	return strings.TrimSuffix(strings.Replace(p, "en_us", "en-us", 1), ".html")
}
