package mapper

import (
	"litsearch-be/internal/entity"
	"litsearch-be/internal/model"
)

type DuplicateRelationshipMapper struct{}

func NewDuplicateRelationshipMapper() *DuplicateRelationshipMapper {
	return &DuplicateRelationshipMapper{}
}

func (m *DuplicateRelationshipMapper) ToEntity(mdl *model.DuplicateRelationship) *entity.DuplicateRelationship {
	if mdl == nil {
		return nil
	}
	return &entity.DuplicateRelationship{
		Id:                mdl.Id,
		SearchSessionId:   mdl.SearchSessionId,
		OriginalResultId:  mdl.OriginalResultId,
		DuplicateResultId: mdl.DuplicateResultId,
		DetectionMethod:   mdl.DetectionMethod,
		SimilarityScore:   mdl.SimilarityScore,
		Confidence:        mdl.Confidence,
		CreatedAt:         mdl.CreatedAt,
	}
}

func (m *DuplicateRelationshipMapper) ToModel(e *entity.DuplicateRelationship) *model.DuplicateRelationship {
	if e == nil {
		return nil
	}
	return &model.DuplicateRelationship{
		Id:                e.Id,
		SearchSessionId:   e.SearchSessionId,
		OriginalResultId:  e.OriginalResultId,
		DuplicateResultId: e.DuplicateResultId,
		DetectionMethod:   e.DetectionMethod,
		SimilarityScore:   e.SimilarityScore,
		Confidence:        e.Confidence,
		CreatedAt:         e.CreatedAt,
	}
}

func (m *DuplicateRelationshipMapper) ToEntities(models []*model.DuplicateRelationship) []*entity.DuplicateRelationship {
	entities := make([]*entity.DuplicateRelationship, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
