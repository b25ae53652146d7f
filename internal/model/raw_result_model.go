package model

import (
	"time"

	"github.com/google/uuid"
)

type RawResult struct {
	Id              uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	SearchSessionId uuid.UUID `gorm:"column:search_session_id;type:uuid;index;not null"`
	QueryId         uuid.UUID `gorm:"column:query_id;type:uuid;not null"`
	Title           string    `gorm:"column:title;type:text"`
	URL             string    `gorm:"column:url;type:text;not null"`
	Snippet         string    `gorm:"column:snippet;type:text"`
	Position        int       `gorm:"column:position;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RawResult) TableName() string {
	return "raw_results"
}
