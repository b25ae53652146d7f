package entity

import (
	"time"

	"github.com/google/uuid"
)

// RawResult is one search-engine hit as received from the search
// execution component. Immutable once stored; read-only input to the
// processing pipeline.
type RawResult struct {
	Id              uuid.UUID
	SearchSessionId uuid.UUID
	QueryId         uuid.UUID
	Title           string
	URL             string
	Snippet         string
	Position        int
	CreatedAt       time.Time
}
