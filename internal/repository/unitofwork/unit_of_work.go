package unitofwork

import (
	"context"

	"litsearch-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one transaction so a batch's
// processed results, duplicate relationships, and progress counters
// commit (or roll back) as a single unit. Readers never observe a
// half-written batch.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	RawResultRepository() contract.RawResultRepository
	ProcessedResultRepository() contract.ProcessedResultRepository
	DuplicateRelationshipRepository() contract.DuplicateRelationshipRepository
	ProcessingSessionRepository() contract.ProcessingSessionRepository
}
