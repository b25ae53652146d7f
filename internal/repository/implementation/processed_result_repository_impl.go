package implementation

import (
	"context"
	"errors"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/mapper"
	"litsearch-be/internal/model"
	"litsearch-be/internal/repository/contract"
	"litsearch-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessedResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcessedResultMapper
}

func NewProcessedResultRepository(db *gorm.DB) contract.ProcessedResultRepository {
	return &ProcessedResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcessedResultMapper(),
	}
}

func (r *ProcessedResultRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProcessedResultRepositoryImpl) Create(ctx context.Context, result *entity.ProcessedResult) error {
	m := r.mapper.ToModel(result)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*result = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessedResultRepositoryImpl) CountBySession(ctx context.Context, searchSessionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProcessedResult{}).
		Where("search_session_id = ?", searchSessionId).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProcessedResultRepositoryImpl) FindBySession(ctx context.Context, searchSessionId uuid.UUID) ([]*entity.ProcessedResult, error) {
	var models []*model.ProcessedResult
	err := r.db.WithContext(ctx).
		Where("search_session_id = ?", searchSessionId).
		Order("created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProcessedResultRepositoryImpl) FindByRawResult(ctx context.Context, rawResultId uuid.UUID) (*entity.ProcessedResult, error) {
	var m model.ProcessedResult
	err := r.db.WithContext(ctx).
		Where("raw_result_id = ?", rawResultId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProcessedResultRepositoryImpl) FindFiltered(ctx context.Context, searchSessionId uuid.UUID, filter contract.ResultFilter) ([]*entity.ProcessedResult, int64, error) {
	specs := filterSpecifications(searchSessionId, filter)

	var total int64
	countQuery := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProcessedResult{}), specs...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSpecs := append(specs,
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: filter.Limit, Offset: filter.Offset},
	)
	var models []*model.ProcessedResult
	query := r.applySpecifications(r.db.WithContext(ctx), pageSpecs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return r.mapper.ToEntities(models), total, nil
}

func filterSpecifications(searchSessionId uuid.UUID, filter contract.ResultFilter) []specification.Specification {
	specs := []specification.Specification{
		specification.BySearchSessionID{SearchSessionID: searchSessionId},
	}
	if filter.Domain != "" {
		specs = append(specs, specification.ByDomain{Domain: filter.Domain})
	}
	if filter.FileType != "" {
		specs = append(specs, specification.ByFileType{FileType: filter.FileType})
	}
	if filter.Duplicate != nil {
		specs = append(specs, specification.ByDuplicate{IsDuplicate: *filter.Duplicate})
	}
	if filter.MinQuality != nil {
		specs = append(specs, specification.MinQualityScore{Score: *filter.MinQuality})
	}
	return specs
}

func (r *ProcessedResultRepositoryImpl) DomainGroups(ctx context.Context, searchSessionId uuid.UUID) ([]contract.DomainGroup, error) {
	var groups []contract.DomainGroup
	err := r.db.WithContext(ctx).
		Model(&model.ProcessedResult{}).
		Select("domain, COUNT(*) AS count").
		Where("search_session_id = ? AND domain <> ''", searchSessionId).
		Group("domain").
		Order("count DESC").
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}
