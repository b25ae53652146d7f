package contract

import (
	"context"

	"litsearch-be/internal/entity"

	"github.com/google/uuid"
)

type ProcessingSessionRepository interface {
	Create(ctx context.Context, session *entity.ProcessingSession) error
	Update(ctx context.Context, session *entity.ProcessingSession) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.ProcessingSession, error)
	// FindBySearchSession returns the processing session for a search
	// session, or nil when none exists (at most one per search
	// session).
	FindBySearchSession(ctx context.Context, searchSessionId uuid.UUID) (*entity.ProcessingSession, error)
}
