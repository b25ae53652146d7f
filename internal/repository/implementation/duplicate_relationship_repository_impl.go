package implementation

import (
	"context"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/mapper"
	"litsearch-be/internal/model"
	"litsearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DuplicateRelationshipRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DuplicateRelationshipMapper
}

func NewDuplicateRelationshipRepository(db *gorm.DB) contract.DuplicateRelationshipRepository {
	return &DuplicateRelationshipRepositoryImpl{
		db:     db,
		mapper: mapper.NewDuplicateRelationshipMapper(),
	}
}

func (r *DuplicateRelationshipRepositoryImpl) Create(ctx context.Context, rel *entity.DuplicateRelationship) error {
	m := r.mapper.ToModel(rel)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*rel = *r.mapper.ToEntity(m)
	return nil
}

func (r *DuplicateRelationshipRepositoryImpl) FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.DuplicateRelationship, error) {
	var models []*model.DuplicateRelationship
	err := r.db.WithContext(ctx).
		Where("search_session_id = ?", searchSessionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DuplicateRelationshipRepositoryImpl) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DuplicateRelationship{}).
		Where("search_session_id = ?", searchSessionId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
