package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"litsearch-be/internal/entity"
	"litsearch-be/internal/model"
)

type ProcessingSessionMapper struct{}

func NewProcessingSessionMapper() *ProcessingSessionMapper {
	return &ProcessingSessionMapper{}
}

func (m *ProcessingSessionMapper) ToEntity(mdl *model.ProcessingSession) *entity.ProcessingSession {
	if mdl == nil {
		return nil
	}
	var recent []entity.ProcessingError
	if len(mdl.RecentErrors) > 0 {
		// A corrupt log entry is not worth failing a status read over.
		_ = json.Unmarshal(mdl.RecentErrors, &recent)
	}
	return &entity.ProcessingSession{
		Id:              mdl.Id,
		SearchSessionId: mdl.SearchSessionId,
		Status:          mdl.Status,
		CurrentStage:    mdl.CurrentStage,
		TotalResults:    mdl.TotalResults,
		ProcessedCount:  mdl.ProcessedCount,
		DuplicateCount:  mdl.DuplicateCount,
		ErrorCount:      mdl.ErrorCount,
		RecentErrors:    recent,
		StartedAt:       mdl.StartedAt,
		CompletedAt:     mdl.CompletedAt,
		HeartbeatAt:     mdl.HeartbeatAt,
		CreatedAt:       mdl.CreatedAt,
		UpdatedAt:       mdl.UpdatedAt,
	}
}

func (m *ProcessingSessionMapper) ToModel(e *entity.ProcessingSession) *model.ProcessingSession {
	if e == nil {
		return nil
	}
	var recent datatypes.JSON
	if len(e.RecentErrors) > 0 {
		if b, err := json.Marshal(e.RecentErrors); err == nil {
			recent = b
		}
	}
	return &model.ProcessingSession{
		Id:              e.Id,
		SearchSessionId: e.SearchSessionId,
		Status:          e.Status,
		CurrentStage:    e.CurrentStage,
		TotalResults:    e.TotalResults,
		ProcessedCount:  e.ProcessedCount,
		DuplicateCount:  e.DuplicateCount,
		ErrorCount:      e.ErrorCount,
		RecentErrors:    recent,
		StartedAt:       e.StartedAt,
		CompletedAt:     e.CompletedAt,
		HeartbeatAt:     e.HeartbeatAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
