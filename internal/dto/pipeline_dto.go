package dto

import (
	"time"

	"github.com/google/uuid"
)

// StartRunResponse acknowledges a start/retry request. Processing
// continues in the background; poll the status endpoint for progress.
type StartRunResponse struct {
	ProcessingSessionId uuid.UUID `json:"processing_session_id"`
	Status              string    `json:"status"`
}

type RunErrorEntry struct {
	RawResultId uuid.UUID `json:"raw_result_id"`
	Position    int       `json:"position"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RunStatusResponse is the polling payload for a processing session.
type RunStatusResponse struct {
	SessionId           uuid.UUID       `json:"session_id"`
	SearchSessionId     uuid.UUID       `json:"search_session_id"`
	Status              string          `json:"status"`
	CurrentStage        string          `json:"current_stage"`
	StageProgress       float64         `json:"stage_progress"`
	TotalResults        int             `json:"total_results"`
	ProcessedCount      int             `json:"processed_count"`
	DuplicateCount      int             `json:"duplicate_count"`
	ErrorCount          int             `json:"error_count"`
	RecentErrors        []RunErrorEntry `json:"recent_errors,omitempty"`
	StartedAt           *time.Time      `json:"started_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	EstimatedCompletion *time.Time      `json:"estimated_completion,omitempty"`
}

// ResultsQuery filters the processed-result listing. All fields are
// optional; zero values mean "no filter".
type ResultsQuery struct {
	Domain     string   `query:"domain"`
	FileType   string   `query:"file_type"`
	Duplicates *bool    `query:"duplicates"`
	MinQuality *float64 `query:"min_quality" validate:"omitempty,gte=0,lte=1"`
	Limit      int      `query:"limit" validate:"omitempty,gte=1,lte=200"`
	Offset     int      `query:"offset" validate:"omitempty,gte=0"`
}

type ProcessedResultResponse struct {
	Id              uuid.UUID  `json:"id"`
	RawResultId     uuid.UUID  `json:"raw_result_id"`
	Title           string     `json:"title"`
	Snippet         string     `json:"snippet"`
	OriginalURL     string     `json:"original_url"`
	NormalizedURL   string     `json:"normalized_url"`
	Domain          string     `json:"domain"`
	FileType        string     `json:"file_type"`
	SizeEstimate    *int64     `json:"size_estimate,omitempty"`
	Language        string     `json:"language,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	QualityScore    float64    `json:"quality_score"`
	IsDuplicate     bool       `json:"is_duplicate"`
	DuplicateOfId   *uuid.UUID `json:"duplicate_of_id,omitempty"`
	ProcessingError string     `json:"processing_error,omitempty"`
}

type ResultsPageResponse struct {
	Total   int64                     `json:"total"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
	Results []ProcessedResultResponse `json:"results"`
}

type DuplicateRelationshipResponse struct {
	Id                uuid.UUID `json:"id"`
	OriginalResultId  uuid.UUID `json:"original_result_id"`
	DuplicateResultId uuid.UUID `json:"duplicate_result_id"`
	DetectionMethod   string    `json:"detection_method"`
	SimilarityScore   float64   `json:"similarity_score"`
	Confidence        string    `json:"confidence"`
}

type DomainGroupResponse struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}
