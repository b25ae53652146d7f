package contract

import (
	"context"

	"litsearch-be/internal/entity"

	"github.com/google/uuid"
)

type DuplicateRelationshipRepository interface {
	Create(ctx context.Context, rel *entity.DuplicateRelationship) error
	FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.DuplicateRelationship, error)
	CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error)
}
