// Package dedup implements the multi-strategy duplicate detector for
// processed search results. Strategies are evaluated in descending
// order of trust, first match wins, and every index entry points at
// the canonical first-seen original so links stay stable and
// transitive-safe as the batch grows.
package dedup

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

type Method string

const (
	MethodExactURL        Method = "exact_url"
	MethodTitleSimilarity Method = "title_similarity"
	MethodContentHash     Method = "content_hash"
)

type Confidence string

const (
	ConfidenceDefinite Confidence = "definite"
	ConfidenceProbable Confidence = "probable"
	ConfidencePossible Confidence = "possible"
)

const DefaultTitleThreshold = 0.95

// Candidate is a processed result as the engine sees it.
type Candidate struct {
	ID            uuid.UUID
	NormalizedURL string
	Domain        string
	Title         string
	Snippet       string
}

// Match describes a duplicate determination. OriginalID is always the
// first-seen record of the duplicate group.
type Match struct {
	OriginalID uuid.UUID
	Method     Method
	Similarity float64
	Confidence Confidence
}

// Config toggles individual strategies. The zero value disables
// everything; use DefaultConfig for spec defaults.
type Config struct {
	ExactURL        bool
	TitleSimilarity bool
	ContentHash     bool
	TitleThreshold  float64
}

func DefaultConfig() Config {
	return Config{
		ExactURL:        true,
		TitleSimilarity: true,
		ContentHash:     true,
		TitleThreshold:  DefaultTitleThreshold,
	}
}

type titleEntry struct {
	originalID uuid.UUID
	title      string
}

// Engine holds the per-run duplicate index. It is not safe for
// concurrent use; the orchestrator runs dedup on a single worker.
type Engine struct {
	cfg Config

	byURL    map[string]uuid.UUID
	byHash   map[string]uuid.UUID
	byDomain map[string][]titleEntry

	// Informational domain grouping for manual-verification tooling,
	// populated for every candidate regardless of outcome.
	domainGroups map[string][]uuid.UUID
}

func NewEngine(cfg Config) *Engine {
	if cfg.TitleThreshold <= 0 {
		cfg.TitleThreshold = DefaultTitleThreshold
	}
	return &Engine{
		cfg:          cfg,
		byURL:        make(map[string]uuid.UUID),
		byHash:       make(map[string]uuid.UUID),
		byDomain:     make(map[string][]titleEntry),
		domainGroups: make(map[string][]uuid.UUID),
	}
}

// Check runs the cascading strategies against the index. It does not
// modify the index; call Add with the outcome afterwards.
func (e *Engine) Check(c Candidate) (Match, bool) {
	if e.cfg.ExactURL && c.NormalizedURL != "" {
		if original, ok := e.byURL[c.NormalizedURL]; ok {
			return Match{
				OriginalID: original,
				Method:     MethodExactURL,
				Similarity: 1.0,
				Confidence: ConfidenceDefinite,
			}, true
		}
	}

	if e.cfg.TitleSimilarity {
		if m, ok := e.checkTitle(c); ok {
			return m, true
		}
	}

	if e.cfg.ContentHash {
		if hash, ok := contentHash(c.Title, c.Snippet); ok {
			if original, ok := e.byHash[hash]; ok {
				return Match{
					OriginalID: original,
					Method:     MethodContentHash,
					Similarity: 1.0,
					Confidence: ConfidenceProbable,
				}, true
			}
		}
	}

	return Match{}, false
}

// checkTitle compares the candidate title against titles already seen
// on the same domain.
func (e *Engine) checkTitle(c Candidate) (Match, bool) {
	title := normalizeText(c.Title)
	if title == "" || c.Domain == "" {
		return Match{}, false
	}

	best := Match{}
	found := false
	for _, entry := range e.byDomain[c.Domain] {
		sim := similarity(title, entry.title)
		if sim >= e.cfg.TitleThreshold && sim > best.Similarity {
			best = Match{
				OriginalID: entry.originalID,
				Method:     MethodTitleSimilarity,
				Similarity: sim,
				Confidence: ConfidenceProbable,
			}
			found = true
		}
	}
	return best, found
}

// Add registers a candidate in the index. When match is non-nil the
// candidate was a duplicate and every key it contributes resolves to
// the match's original, never to the candidate itself, so later hits
// on the duplicate's URL, title, or hash still link to the first-seen
// record.
func (e *Engine) Add(c Candidate, match *Match) {
	owner := c.ID
	if match != nil {
		owner = match.OriginalID
	}

	if c.NormalizedURL != "" {
		if _, exists := e.byURL[c.NormalizedURL]; !exists {
			e.byURL[c.NormalizedURL] = owner
		}
	}

	if hash, ok := contentHash(c.Title, c.Snippet); ok {
		if _, exists := e.byHash[hash]; !exists {
			e.byHash[hash] = owner
		}
	}

	if title := normalizeText(c.Title); title != "" && c.Domain != "" {
		e.byDomain[c.Domain] = append(e.byDomain[c.Domain], titleEntry{
			originalID: owner,
			title:      title,
		})
	}

	if c.Domain != "" {
		e.domainGroups[c.Domain] = append(e.domainGroups[c.Domain], c.ID)
	}
}

// DomainGroups returns the informational domain grouping: every
// candidate seen, keyed by domain, in insertion order.
func (e *Engine) DomainGroups() map[string][]uuid.UUID {
	out := make(map[string][]uuid.UUID, len(e.domainGroups))
	for domain, ids := range e.domainGroups {
		out[domain] = append([]uuid.UUID(nil), ids...)
	}
	return out
}

// contentHash hashes the normalized title+snippet to catch
// near-identical records with cosmetic differences. Returns false when
// there is no content to hash: metadata-poor records all normalize to
// the same empty string and must never be linked to each other.
func contentHash(title, snippet string) (string, bool) {
	t := normalizeText(title)
	s := normalizeText(snippet)
	if t == "" && s == "" {
		return "", false
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(t+"\n"+s)), true
}

// normalizeText lower-cases, strips punctuation, and collapses
// whitespace so cosmetic differences do not defeat comparison.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// similarity is a normalized edit-distance ratio in [0, 1] over
// already-normalized strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1.0 - float64(dist)/float64(longest)
}
