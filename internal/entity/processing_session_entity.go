package entity

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses. Partial and failed runs are retryable back into
// in_progress; completed is terminal.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
)

// Sub-stages inside an in_progress run, strictly ordered.
const (
	StageInitialization     = "initialization"
	StageURLNormalization   = "url_normalization"
	StageMetadataExtraction = "metadata_extraction"
	StageDeduplication      = "deduplication"
	StageQualityScoring     = "quality_scoring"
	StageFinalization       = "finalization"
)

// MaxRecentErrors bounds the per-session error log so storage cannot
// grow without limit.
const MaxRecentErrors = 20

// ProcessingError is one entry of the bounded recent-error log.
type ProcessingError struct {
	RawResultId uuid.UUID `json:"raw_result_id"`
	Position    int       `json:"position"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ProcessingSession tracks one run of the pipeline over one search
// session's results. Mutated continuously by the orchestrator, read by
// external callers through the status query. Exactly one active
// session may exist per search session.
type ProcessingSession struct {
	Id              uuid.UUID
	SearchSessionId uuid.UUID

	Status       string
	CurrentStage string

	TotalResults   int
	ProcessedCount int
	DuplicateCount int
	ErrorCount     int
	RecentErrors   []ProcessingError

	StartedAt   *time.Time
	CompletedAt *time.Time
	HeartbeatAt time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsTerminal reports whether the run reached a final status.
func (s *ProcessingSession) IsTerminal() bool {
	switch s.Status {
	case StatusCompleted, StatusPartial, StatusFailed:
		return true
	}
	return false
}

// IsRetryable reports whether Start may resume this run.
func (s *ProcessingSession) IsRetryable() bool {
	return s.Status == StatusPartial || s.Status == StatusFailed
}

// IsStalled reports whether an active run's heartbeat is older than
// the given timeout. Pending counts as active: a task lost before any
// worker picked it up must become retryable the same way a dead
// in_progress run does. Callers must treat a stalled run as failed.
func (s *ProcessingSession) IsStalled(timeout time.Duration, now time.Time) bool {
	if s.Status != StatusInProgress && s.Status != StatusPending {
		return false
	}
	return now.Sub(s.HeartbeatAt) > timeout
}

// RecordError appends to the bounded recent-error log, dropping the
// oldest entry when full.
func (s *ProcessingSession) RecordError(e ProcessingError) {
	s.ErrorCount++
	s.RecentErrors = append(s.RecentErrors, e)
	if len(s.RecentErrors) > MaxRecentErrors {
		s.RecentErrors = s.RecentErrors[len(s.RecentErrors)-MaxRecentErrors:]
	}
}
