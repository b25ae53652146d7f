package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySearchSessionID scopes a query to one search session.
type BySearchSessionID struct {
	SearchSessionID uuid.UUID
}

func (s BySearchSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("search_session_id = ?", s.SearchSessionID)
}

// ByDomain filters processed results by extracted domain.
type ByDomain struct {
	Domain string
}

func (s ByDomain) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("domain = ?", s.Domain)
}

// ByFileType filters processed results by derived file type.
type ByFileType struct {
	FileType string
}

func (s ByFileType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_type = ?", s.FileType)
}

// ByDuplicate filters on the duplicate flag.
type ByDuplicate struct {
	IsDuplicate bool
}

func (s ByDuplicate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_duplicate = ?", s.IsDuplicate)
}

// MinQualityScore keeps results at or above a score floor.
type MinQualityScore struct {
	Score float64
}

func (s MinQualityScore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("quality_score >= ?", s.Score)
}
