package implementation

import (
	"context"
	"errors"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/mapper"
	"litsearch-be/internal/model"
	"litsearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessingSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcessingSessionMapper
}

func NewProcessingSessionRepository(db *gorm.DB) contract.ProcessingSessionRepository {
	return &ProcessingSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcessingSessionMapper(),
	}
}

func (r *ProcessingSessionRepositoryImpl) Create(ctx context.Context, session *entity.ProcessingSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessingSessionRepositoryImpl) Update(ctx context.Context, session *entity.ProcessingSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessingSessionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.ProcessingSession, error) {
	var m model.ProcessingSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProcessingSessionRepositoryImpl) FindBySearchSession(ctx context.Context, searchSessionId uuid.UUID) (*entity.ProcessingSession, error) {
	var m model.ProcessingSession
	err := r.db.WithContext(ctx).
		Where("search_session_id = ?", searchSessionId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
