package mapper

import (
	"litsearch-be/internal/entity"
	"litsearch-be/internal/model"
)

type RawResultMapper struct{}

func NewRawResultMapper() *RawResultMapper {
	return &RawResultMapper{}
}

func (m *RawResultMapper) ToEntity(mdl *model.RawResult) *entity.RawResult {
	if mdl == nil {
		return nil
	}
	return &entity.RawResult{
		Id:              mdl.Id,
		SearchSessionId: mdl.SearchSessionId,
		QueryId:         mdl.QueryId,
		Title:           mdl.Title,
		URL:             mdl.URL,
		Snippet:         mdl.Snippet,
		Position:        mdl.Position,
		CreatedAt:       mdl.CreatedAt,
	}
}

func (m *RawResultMapper) ToModel(e *entity.RawResult) *model.RawResult {
	if e == nil {
		return nil
	}
	return &model.RawResult{
		Id:              e.Id,
		SearchSessionId: e.SearchSessionId,
		QueryId:         e.QueryId,
		Title:           e.Title,
		URL:             e.URL,
		Snippet:         e.Snippet,
		Position:        e.Position,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *RawResultMapper) ToEntities(models []*model.RawResult) []*entity.RawResult {
	entities := make([]*entity.RawResult, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
