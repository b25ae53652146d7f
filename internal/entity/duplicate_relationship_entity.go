package entity

import (
	"time"

	"github.com/google/uuid"
)

// Detection methods, ordered by descending trust.
const (
	DetectionExactURL        = "exact_url"
	DetectionTitleSimilarity = "title_similarity"
	DetectionContentHash     = "content_hash"
)

// Confidence tiers for a duplicate determination.
const (
	ConfidenceDefinite = "definite"
	ConfidenceProbable = "probable"
	ConfidencePossible = "possible"
)

// DuplicateRelationship records why two processed results were linked.
// A result appears as the duplicate side of at most one relationship
// but may be the original side of many.
type DuplicateRelationship struct {
	Id                uuid.UUID
	SearchSessionId   uuid.UUID
	OriginalResultId  uuid.UUID
	DuplicateResultId uuid.UUID
	DetectionMethod   string
	SimilarityScore   float64
	Confidence        string
	CreatedAt         time.Time
}
