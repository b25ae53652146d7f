package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedResult is the canonical output unit of the pipeline:
// exactly one per RawResult, append-only for audit traceability.
// Title, snippet, and original URL are denormalized from the raw
// result so the review UI reads a single record.
type ProcessedResult struct {
	Id              uuid.UUID
	RawResultId     uuid.UUID
	SearchSessionId uuid.UUID

	Title         string
	Snippet       string
	OriginalURL   string
	NormalizedURL string

	Domain          string
	FileType        string
	SizeEstimate    *int64
	Language        string
	PublicationDate *time.Time

	QualityScore float64

	IsDuplicate   bool
	DuplicateOfId *uuid.UUID

	// ProcessingError records a per-record failure instead of dropping
	// the record.
	ProcessingError string

	CreatedAt time.Time
}
