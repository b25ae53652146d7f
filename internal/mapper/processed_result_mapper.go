package mapper

import (
	"litsearch-be/internal/entity"
	"litsearch-be/internal/model"
)

type ProcessedResultMapper struct{}

func NewProcessedResultMapper() *ProcessedResultMapper {
	return &ProcessedResultMapper{}
}

func (m *ProcessedResultMapper) ToEntity(mdl *model.ProcessedResult) *entity.ProcessedResult {
	if mdl == nil {
		return nil
	}
	return &entity.ProcessedResult{
		Id:              mdl.Id,
		RawResultId:     mdl.RawResultId,
		SearchSessionId: mdl.SearchSessionId,
		Title:           mdl.Title,
		Snippet:         mdl.Snippet,
		OriginalURL:     mdl.OriginalURL,
		NormalizedURL:   mdl.NormalizedURL,
		Domain:          mdl.Domain,
		FileType:        mdl.FileType,
		SizeEstimate:    mdl.SizeEstimate,
		Language:        mdl.Language,
		PublicationDate: mdl.PublicationDate,
		QualityScore:    mdl.QualityScore,
		IsDuplicate:     mdl.IsDuplicate,
		DuplicateOfId:   mdl.DuplicateOfId,
		ProcessingError: mdl.ProcessingError,
		CreatedAt:       mdl.CreatedAt,
	}
}

func (m *ProcessedResultMapper) ToModel(e *entity.ProcessedResult) *model.ProcessedResult {
	if e == nil {
		return nil
	}
	return &model.ProcessedResult{
		Id:              e.Id,
		RawResultId:     e.RawResultId,
		SearchSessionId: e.SearchSessionId,
		Title:           e.Title,
		Snippet:         e.Snippet,
		OriginalURL:     e.OriginalURL,
		NormalizedURL:   e.NormalizedURL,
		Domain:          e.Domain,
		FileType:        e.FileType,
		SizeEstimate:    e.SizeEstimate,
		Language:        e.Language,
		PublicationDate: e.PublicationDate,
		QualityScore:    e.QualityScore,
		IsDuplicate:     e.IsDuplicate,
		DuplicateOfId:   e.DuplicateOfId,
		ProcessingError: e.ProcessingError,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *ProcessedResultMapper) ToEntities(models []*model.ProcessedResult) []*entity.ProcessedResult {
	entities := make([]*entity.ProcessedResult, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
