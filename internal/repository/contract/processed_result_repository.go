package contract

import (
	"context"

	"litsearch-be/internal/entity"

	"github.com/google/uuid"
)

// ResultFilter narrows the filtered-results query. Zero values mean
// "no filter"; Duplicate and MinQuality are pointers so false/0 are
// expressible.
type ResultFilter struct {
	Domain     string
	FileType   string
	Duplicate  *bool
	MinQuality *float64
	Limit      int
	Offset     int
}

// DomainGroup is an aggregate row for the domain-grouping view.
type DomainGroup struct {
	Domain string
	Count  int64
}

type ProcessedResultRepository interface {
	Create(ctx context.Context, result *entity.ProcessedResult) error
	CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error)
	// FindBySession returns processed results for a session in
	// processing order (creation order), used to rebuild the dedup
	// index on resume.
	FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.ProcessedResult, error)
	FindByRawResult(ctx context.Context, rawResultId uuid.UUID) (*entity.ProcessedResult, error)
	// FindFiltered returns one page of results plus the total count of
	// records matching the filter.
	FindFiltered(ctx context.Context, searchSessionId uuid.UUID, filter ResultFilter) ([]*entity.ProcessedResult, int64, error)
	// DomainGroups aggregates a session's results by extracted domain
	// for manual-verification tooling.
	DomainGroups(ctx context.Context, searchSessionId uuid.UUID) ([]DomainGroup, error)
}
