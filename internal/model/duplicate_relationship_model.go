package model

import (
	"time"

	"github.com/google/uuid"
)

type DuplicateRelationship struct {
	Id                uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	SearchSessionId   uuid.UUID `gorm:"column:search_session_id;type:uuid;index;not null"`
	OriginalResultId  uuid.UUID `gorm:"column:original_result_id;type:uuid;index;not null"`
	DuplicateResultId uuid.UUID `gorm:"column:duplicate_result_id;type:uuid;uniqueIndex;not null"`
	DetectionMethod   string    `gorm:"column:detection_method;type:varchar(32);not null"`
	SimilarityScore   float64   `gorm:"column:similarity_score;not null"`
	Confidence        string    `gorm:"column:confidence;type:varchar(16);not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DuplicateRelationship) TableName() string {
	return "duplicate_relationships"
}
