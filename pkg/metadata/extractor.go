package metadata

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Metadata holds the fields derived from a raw search result. Optional
// fields are explicit: an empty string / nil pointer means the field
// could not be derived, which degrades the quality score instead of
// erroring.
type Metadata struct {
	Domain          string
	FileType        string
	SizeEstimate    *int64 // bytes
	Language        string
	PublicationDate *time.Time
}

// Input is the slice of a raw result the extractor needs.
type Input struct {
	Title         string
	Snippet       string
	URL           string
	NormalizedURL string
}

const (
	FileTypePDF     = "pdf"
	FileTypeDoc     = "doc"
	FileTypePPT     = "ppt"
	FileTypeXLS     = "xls"
	FileTypeHTML    = "html"
	FileTypeText    = "txt"
	FileTypeVideo   = "video"
	FileTypeAudio   = "audio"
	FileTypeImage   = "image"
	FileTypeUnknown = "unknown"
)

var extensionTypes = map[string]string{
	".pdf":  FileTypePDF,
	".doc":  FileTypeDoc,
	".docx": FileTypeDoc,
	".rtf":  FileTypeDoc,
	".odt":  FileTypeDoc,
	".ppt":  FileTypePPT,
	".pptx": FileTypePPT,
	".xls":  FileTypeXLS,
	".xlsx": FileTypeXLS,
	".csv":  FileTypeXLS,
	".html": FileTypeHTML,
	".htm":  FileTypeHTML,
	".php":  FileTypeHTML,
	".asp":  FileTypeHTML,
	".aspx": FileTypeHTML,
	".jsp":  FileTypeHTML,
	".txt":  FileTypeText,
	".md":   FileTypeText,
	".mp4":  FileTypeVideo,
	".avi":  FileTypeVideo,
	".mov":  FileTypeVideo,
	".webm": FileTypeVideo,
	".mkv":  FileTypeVideo,
	".mp3":  FileTypeAudio,
	".wav":  FileTypeAudio,
	".ogg":  FileTypeAudio,
	".m4a":  FileTypeAudio,
	".jpg":  FileTypeImage,
	".jpeg": FileTypeImage,
	".png":  FileTypeImage,
	".gif":  FileTypeImage,
	".svg":  FileTypeImage,
	".webp": FileTypeImage,
}

// Quality score weights. Heuristic defaults, explainable over precise.
const (
	weightTitle        = 0.2
	weightSnippet      = 0.2
	weightCompleteness = 0.3
	weightDomain       = 0.3

	qualityHigh    = 0.9
	qualityDefault = 0.5

	// Fields shorter than this are treated as absent.
	minMeaningfulLen = 3
)

// academicDomains are substrings of hosts recognized as high-quality
// academic or institutional sources.
var academicDomains = []string{
	"pubmed.ncbi.nlm.nih.gov",
	"scholar.google",
	"arxiv.org",
	"jstor.org",
	"springer",
	"sciencedirect.com",
	"nature.com",
	"ieee.org",
	"acm.org",
	"wiley.com",
	"tandfonline.com",
	"cochranelibrary.com",
	"who.int",
	"nih.gov",
	"plos.org",
	"bmj.com",
	"thelancet.com",
	"ssrn.com",
}

var academicTLDSuffixes = []string{
	".gov", ".edu", ".ac.uk", ".gov.uk", ".edu.au", ".gov.au", ".ac.jp",
}

var sizePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(KB|MB|GB)\b`)

// Extractor derives structured metadata and a quality score from raw
// title/snippet/URL. It never fails on malformed input.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract derives metadata from the input and scores it. The score is
// always within [0, 1].
func (e *Extractor) Extract(in Input) (Metadata, float64) {
	md := e.Derive(in)
	return md, e.Score(in, md)
}

// Derive extracts the metadata fields without scoring, so callers can
// run derivation and scoring as separate passes.
func (e *Extractor) Derive(in Input) Metadata {
	return Metadata{
		Domain:          extractDomain(in.NormalizedURL, in.URL),
		FileType:        detectFileType(in.NormalizedURL, in.URL),
		SizeEstimate:    estimateSize(in.Title + " " + in.Snippet),
		Language:        detectLanguage(in.Title + " " + in.Snippet),
		PublicationDate: extractDate(in.Title + " " + in.Snippet),
	}
}

// Score computes the weighted quality score:
//
//	0.2·hasTitle + 0.2·hasSnippet + 0.3·completeness + 0.3·domainQuality
func (e *Extractor) Score(in Input, md Metadata) float64 {
	var score float64
	if meaningful(in.Title) {
		score += weightTitle
	}
	if meaningful(in.Snippet) {
		score += weightSnippet
	}
	score += weightCompleteness * completeness(md)
	score += weightDomain * domainQuality(md.Domain)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func meaningful(s string) bool {
	return len(strings.TrimSpace(s)) >= minMeaningfulLen
}

// completeness is the fraction of {file type, date, language} derived.
func completeness(md Metadata) float64 {
	derived := 0
	if md.FileType != "" && md.FileType != FileTypeUnknown {
		derived++
	}
	if md.PublicationDate != nil {
		derived++
	}
	if md.Language != "" {
		derived++
	}
	return float64(derived) / 3.0
}

func domainQuality(domain string) float64 {
	if domain == "" {
		return qualityDefault
	}
	host := strings.ToLower(domain)
	for _, suffix := range academicTLDSuffixes {
		if strings.HasSuffix(host, suffix) {
			return qualityHigh
		}
	}
	for _, known := range academicDomains {
		if strings.Contains(host, known) {
			return qualityHigh
		}
	}
	return qualityDefault
}

func extractDomain(normalized, raw string) string {
	for _, candidate := range []string{normalized, raw} {
		if u, err := url.Parse(candidate); err == nil && u.Hostname() != "" {
			return strings.ToLower(u.Hostname())
		}
	}
	return ""
}

func detectFileType(normalized, raw string) string {
	target := normalized
	if target == "" {
		target = raw
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return FileTypeUnknown
	}

	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" {
		// Extension-less paths are ordinary web pages.
		return FileTypeHTML
	}
	if ft, ok := extensionTypes[ext]; ok {
		return ft
	}
	return FileTypeUnknown
}

// estimateSize parses coarse size hints like "(2.4 MB)" from link text.
func estimateSize(text string) *int64 {
	m := sizePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return nil
	}
	var multiplier float64
	switch strings.ToUpper(m[2]) {
	case "KB":
		multiplier = 1 << 10
	case "MB":
		multiplier = 1 << 20
	case "GB":
		multiplier = 1 << 30
	}
	bytes := int64(value * multiplier)
	return &bytes
}
