package metadata

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDerivesFields(t *testing.T) {
	e := NewExtractor()

	md, score := e.Extract(Input{
		Title:         "Effects of early mobilisation after stroke: a systematic review",
		Snippet:       "Published 12 March 2021. Full report (PDF, 2.4 MB) from the national stroke registry with details of the cohort.",
		URL:           "https://www.health.gov.au/reports/stroke.pdf",
		NormalizedURL: "https://health.gov.au/reports/stroke.pdf",
	})

	assert.Equal(t, "health.gov.au", md.Domain)
	assert.Equal(t, FileTypePDF, md.FileType)
	assert.Equal(t, "en", md.Language)

	require.NotNil(t, md.PublicationDate)
	assert.Equal(t, 2021, md.PublicationDate.Year())
	assert.Equal(t, time.March, md.PublicationDate.Month())
	assert.Equal(t, 12, md.PublicationDate.Day())

	require.NotNil(t, md.SizeEstimate)
	assert.InDelta(t, 2.4*float64(1<<20), float64(*md.SizeEstimate), 1)

	// Everything present on a .gov domain: full marks.
	assert.InDelta(t, 0.2+0.2+0.3+0.3*0.9, score, 1e-9)
}

func TestScoreBounds(t *testing.T) {
	e := NewExtractor()

	inputs := []Input{
		{},
		{Title: "x"},
		{URL: "not a url"},
		{Title: strings.Repeat("a", 10_000), Snippet: strings.Repeat("b", 10_000)},
		{Title: "Report", Snippet: "Published 2020-05-01", URL: "https://arxiv.org/abs/1234.pdf", NormalizedURL: "https://arxiv.org/abs/1234.pdf"},
	}
	for _, in := range inputs {
		_, score := e.Extract(in)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestScoreEmptyFieldsOnGovDomain(t *testing.T) {
	e := NewExtractor()
	md, score := e.Extract(Input{
		URL:           "https://gov.example.gov/doc.pdf",
		NormalizedURL: "https://gov.example.gov/doc.pdf",
	})

	assert.Equal(t, FileTypePDF, md.FileType)
	assert.Empty(t, md.Language)
	assert.Nil(t, md.PublicationDate)

	// No title, no snippet: 0.3·(1/3 completeness) + 0.3·0.9 domain.
	assert.InDelta(t, 0.3*(1.0/3.0)+0.3*0.9, score, 1e-9)
}

func TestDetectFileType(t *testing.T) {
	cases := map[string]string{
		"https://example.org/paper.pdf":      FileTypePDF,
		"https://example.org/slides.PPTX":    FileTypePPT,
		"https://example.org/data.csv":       FileTypeXLS,
		"https://example.org/page.html":      FileTypeHTML,
		"https://example.org/article":        FileTypeHTML,
		"https://example.org/archive.tar.gz": FileTypeUnknown,
		"not a url":                          FileTypeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, detectFileType(in, in), "url %q", in)
	}
}

func TestDomainQuality(t *testing.T) {
	assert.Equal(t, 0.9, domainQuality("cdc.gov"))
	assert.Equal(t, 0.9, domainQuality("ox.ac.uk"))
	assert.Equal(t, 0.9, domainQuality("link.springer.com"))
	assert.Equal(t, 0.5, domainQuality("example.com"))
	assert.Equal(t, 0.5, domainQuality(""))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", detectLanguage("the effects of the intervention for patients in this trial"))
	assert.Equal(t, "es", detectLanguage("los efectos de la intervención en el grupo de control"))
	assert.Equal(t, "", detectLanguage("lorem"))
	assert.Equal(t, "", detectLanguage(""))
}

func TestExtractDateFormats(t *testing.T) {
	cases := map[string]string{
		"published on 2021-03-12 by the agency": "2021-03-12",
		"12 March 2021 — press release":         "2021-03-12",
		"Mar 12, 2021 update":                   "2021-03-12",
		"Archive from March 2021":               "2021-03-01",
	}
	for in, want := range cases {
		got := extractDate(in)
		require.NotNil(t, got, "input %q", in)
		assert.Equal(t, want, got.Format("2006-01-02"), "input %q", in)
	}

	assert.Nil(t, extractDate("no date here"))
	assert.Nil(t, extractDate("impossible 2021-02-31 date"))
	assert.Nil(t, extractDate("ancient 1492-01-01 date"))
}
