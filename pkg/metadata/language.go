package metadata

import "strings"

// Stopword sets per language. A handful of very frequent function words
// is enough to separate the languages search snippets actually arrive
// in; anything fancier would need a corpus the inputs are too short
// for.
var languageStopwords = map[string][]string{
	"en": {"the", "and", "of", "to", "in", "for", "with", "that", "this", "from", "are", "was"},
	"es": {"el", "la", "los", "las", "de", "que", "en", "por", "con", "una", "para", "del"},
	"fr": {"le", "la", "les", "des", "et", "une", "dans", "pour", "que", "sur", "avec", "est"},
	"de": {"der", "die", "das", "und", "von", "mit", "für", "ist", "den", "dem", "ein", "eine"},
	"pt": {"os", "as", "um", "uma", "não", "com", "por", "para", "mais", "como", "dos", "das"},
}

// detectLanguage guesses the language of title+snippet text by
// stopword frequency. Returns "" when no language scores confidently.
func detectLanguage(text string) string {
	words := tokenize(text)
	if len(words) < 4 {
		return ""
	}

	best := ""
	bestHits := 0
	for lang, stops := range languageStopwords {
		hits := 0
		for _, w := range words {
			for _, s := range stops {
				if w == s {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			best, bestHits = lang, hits
		}
	}

	// Require at least two stopword hits before committing.
	if bestHits < 2 {
		return ""
	}
	return best
}

func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'à' && r <= 'ÿ' || r >= '0' && r <= '9')
	})
}
