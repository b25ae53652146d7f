package model

import (
	"time"

	"github.com/google/uuid"
)

type ProcessedResult struct {
	Id              uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	RawResultId     uuid.UUID `gorm:"column:raw_result_id;type:uuid;uniqueIndex;not null"`
	SearchSessionId uuid.UUID `gorm:"column:search_session_id;type:uuid;index;not null"`

	Title         string `gorm:"column:title;type:text"`
	Snippet       string `gorm:"column:snippet;type:text"`
	OriginalURL   string `gorm:"column:original_url;type:text;not null"`
	NormalizedURL string `gorm:"column:normalized_url;type:text;index"`

	Domain          string     `gorm:"column:domain;type:varchar(255);index"`
	FileType        string     `gorm:"column:file_type;type:varchar(32)"`
	SizeEstimate    *int64     `gorm:"column:size_estimate"`
	Language        string     `gorm:"column:language;type:varchar(16)"`
	PublicationDate *time.Time `gorm:"column:publication_date"`

	QualityScore float64 `gorm:"column:quality_score;not null;default:0"`

	IsDuplicate   bool       `gorm:"column:is_duplicate;not null;default:false"`
	DuplicateOfId *uuid.UUID `gorm:"column:duplicate_of_id;type:uuid"`

	ProcessingError string `gorm:"column:processing_error;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProcessedResult) TableName() string {
	return "processed_results"
}
