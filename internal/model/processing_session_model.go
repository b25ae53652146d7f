package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessingSession struct {
	Id              uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	SearchSessionId uuid.UUID `gorm:"column:search_session_id;type:uuid;uniqueIndex;not null"`

	Status       string `gorm:"column:status;type:varchar(16);not null;index"`
	CurrentStage string `gorm:"column:current_stage;type:varchar(32);not null"`

	TotalResults   int            `gorm:"column:total_results;not null;default:0"`
	ProcessedCount int            `gorm:"column:processed_count;not null;default:0"`
	DuplicateCount int            `gorm:"column:duplicate_count;not null;default:0"`
	ErrorCount     int            `gorm:"column:error_count;not null;default:0"`
	RecentErrors   datatypes.JSON `gorm:"column:recent_errors;type:jsonb"`

	StartedAt   *time.Time `gorm:"column:started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	HeartbeatAt time.Time  `gorm:"column:heartbeat_at"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProcessingSession) TableName() string {
	return "processing_sessions"
}
