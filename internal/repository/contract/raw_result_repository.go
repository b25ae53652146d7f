package contract

import (
	"context"

	"litsearch-be/internal/entity"

	"github.com/google/uuid"
)

type RawResultRepository interface {
	Create(ctx context.Context, result *entity.RawResult) error
	CreateBatch(ctx context.Context, results []*entity.RawResult) error
	// FindPage returns one fixed-size page of a session's raw results
	// in stable creation order (position, then id), so first-seen-wins
	// duplicate selection is reproducible across runs.
	FindPage(ctx context.Context, searchSessionId uuid.UUID, offset, limit int) ([]*entity.RawResult, error)
	CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error)
}
