package urlnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesEquivalentURLs(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "tracking params and scheme case",
			a:    "http://Example.org/report?utm_source=x",
			b:    "https://www.example.org/report/",
		},
		{
			name: "utm and fbclid removed",
			a:    "https://example.org/paper?id=7&utm_medium=email&fbclid=abc",
			b:    "https://example.org/paper?id=7",
		},
		{
			name: "fragment dropped",
			a:    "https://example.org/doc#section-2",
			b:    "https://example.org/doc",
		},
		{
			name: "index file dropped",
			a:    "https://example.org/reports/index.html",
			b:    "https://example.org/reports/",
		},
		{
			name: "duplicate separators collapsed",
			a:    "https://example.org//a///b",
			b:    "https://example.org/a/b",
		},
		{
			name: "default port dropped",
			a:    "https://example.org:443/a",
			b:    "https://example.org/a",
		},
		{
			name: "host case",
			a:    "HTTPS://EXAMPLE.ORG/A",
			b:    "https://example.org/A",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Normalize(tc.a), Normalize(tc.b))
		})
	}
}

func TestNormalizeKeepsMeaningfulParts(t *testing.T) {
	// Meaningful query params survive, sorted for a stable key.
	got := Normalize("https://example.org/search?q=stroke&page=2&utm_campaign=x")
	assert.Equal(t, "https://example.org/search?page=2&q=stroke", got)

	// Non-default ports are part of the identity.
	assert.NotEqual(t,
		Normalize("https://example.org:8443/a"),
		Normalize("https://example.org/a"),
	)

	// http and https compare equal, other schemes do not.
	assert.Equal(t, Normalize("http://example.org/a"), Normalize("https://example.org/a"))
	assert.NotEqual(t, Normalize("ftp://example.org/a"), Normalize("https://example.org/a"))
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not a url at all",
		"://missing-scheme",
		"http://%zz/bad-escape",
		"example.org/no-scheme#frag",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Normalize(in) }, "input %q", in)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"http://Example.org/report?utm_source=x&id=3",
		"https://www.example.org//a//index.php?ref=rss#top",
		"not a url at all/",
		"https://example.org",
		"https://example.org:8080/x/",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeRootPath(t *testing.T) {
	assert.Equal(t, Normalize("https://example.org"), Normalize("https://example.org/"))
}
