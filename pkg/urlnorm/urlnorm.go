package urlnorm

import (
	"net/url"
	"strings"
)

// trackingParams is the fixed deny-list of query parameters that never
// change the identity of a document. Keys prefixed "utm_" are removed
// separately.
var trackingParams = map[string]struct{}{
	"fbclid":   {},
	"gclid":    {},
	"gclsrc":   {},
	"dclid":    {},
	"msclkid":  {},
	"wbraid":   {},
	"gbraid":   {},
	"mc_cid":   {},
	"mc_eid":   {},
	"igshid":   {},
	"ref":      {},
	"referrer": {},
	"mkt_tok":  {},
	"cmpid":    {},
}

// indexFiles are default directory index filenames dropped from the
// end of a path.
var indexFiles = map[string]struct{}{
	"index.html": {},
	"index.htm":  {},
	"index.php":  {},
}

// Normalize turns a raw URL into its canonical comparison key. It is a
// total function: malformed input is passed through a best-effort
// cleanup and returned rather than failing, so duplicate detection
// degrades gracefully instead of aborting a batch.
//
// The canonical form is only a comparison key. Callers keep the
// original URL separately for display and audit.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return fallbackCleanup(trimmed)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "http" {
		scheme = "https"
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		host = host + ":" + port
	}

	path := normalizePath(u.EscapedPath())
	query := stripTracking(u.Query())

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	b.WriteString(path)
	if len(query) > 0 {
		b.WriteString("?")
		b.WriteString(query.Encode())
	}
	// Fragment is dropped entirely.
	return b.String()
}

// Parseable reports whether a raw URL has a usable scheme and host.
// The pipeline records results failing this check with a per-record
// error instead of dropping them.
func Parseable(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// fallbackCleanup is applied when the input does not parse as a URL.
// It strips the fragment and trailing slash and lower-cases the
// string, which is enough to make trivially different copies of the
// same broken value compare equal.
func fallbackCleanup(raw string) string {
	s := raw
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}

	// Collapse duplicate separators.
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	// Drop a default index filename at the end of the path.
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		last := strings.ToLower(p[i+1:])
		if _, ok := indexFiles[last]; ok {
			p = p[:i+1]
		}
	}

	// Drop the trailing slash unless the path is root.
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func stripTracking(q url.Values) url.Values {
	for key := range q {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") {
			delete(q, key)
			continue
		}
		if _, ok := trackingParams[lower]; ok {
			delete(q, key)
		}
	}
	return q
}
