package discovery

import (
	"errors"
	"net/url"
	"strings"
)

var trackingParams = map[string]bool{
	"fbclid": true, "gclid": true, "ref": true, "source": true,
	"_gl": true, "mc_cid": true, "mc_eid": true,
}

var errNotWebURL = errors.New("not an absolute http(s) url")

// CanonicalizeURL normalizes an absolute URL for deduplication: lowercase
// scheme and host, no "www." prefix, no fragment, no tracking parameters,
// no trailing slash.
func CanonicalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return canonicalize(u)
}

// resolveLink resolves href against base and canonicalizes it.
func resolveLink(base *url.URL, href string) (*url.URL, string, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil, "", errNotWebURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil, "", err
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	canon, err := canonicalize(abs)
	if err != nil {
		return nil, "", err
	}
	u, err := url.Parse(canon)
	return u, canon, err
}

func canonicalize(u *url.URL) (string, error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" || u.Host == "" {
		return "", errNotWebURL
	}

	c := *u
	c.Scheme = scheme
	c.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	c.Fragment = ""
	c.RawFragment = ""
	c.User = nil

	if c.RawQuery != "" {
		q := c.Query()
		for k := range q {
			lk := strings.ToLower(k)
			if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
				q.Del(k)
			}
		}
		c.RawQuery = q.Encode()
	}

	c.Path = strings.TrimRight(c.Path, "/")
	c.RawPath = ""
	return c.String(), nil
}

// isBareRoot reports whether u points at a site root with no path or query.
func isBareRoot(u *url.URL) bool {
	return strings.Trim(u.Path, "/") == "" && u.RawQuery == ""
}

// IsBareRoot reports whether raw is a site root such as "https://meetup.com/".
func IsBareRoot(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Host != "" && isBareRoot(u)
}

// hostMatches reports whether host is domain or one of its subdomains.
func hostMatches(host, domain string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")
	if domain == "" {
		return true
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
