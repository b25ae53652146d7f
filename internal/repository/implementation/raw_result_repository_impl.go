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

type RawResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RawResultMapper
}

func NewRawResultRepository(db *gorm.DB) contract.RawResultRepository {
	return &RawResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewRawResultMapper(),
	}
}

func (r *RawResultRepositoryImpl) Create(ctx context.Context, result *entity.RawResult) error {
	m := r.mapper.ToModel(result)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*result = *r.mapper.ToEntity(m)
	return nil
}

func (r *RawResultRepositoryImpl) CreateBatch(ctx context.Context, results []*entity.RawResult) error {
	if len(results) == 0 {
		return nil
	}
	models := make([]*model.RawResult, 0, len(results))
	for _, res := range results {
		models = append(models, r.mapper.ToModel(res))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*results[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *RawResultRepositoryImpl) FindPage(ctx context.Context, searchSessionId uuid.UUID, offset, limit int) ([]*entity.RawResult, error) {
	var models []*model.RawResult
	err := r.db.WithContext(ctx).
		Where("search_session_id = ?", searchSessionId).
		Order("position ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RawResultRepositoryImpl) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RawResult{}).
		Where("search_session_id = ?", searchSessionId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
