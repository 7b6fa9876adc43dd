package model

import (
	"time"

	"gorm.io/datatypes"
)

// Certificate is the permanent audit record of a passed evaluation. Exactly
// one exists per attempt, it is never updated or deleted, and it denormalizes
// every field the credential document needs so later catalog or settings
// edits cannot change what was issued.
// swagger:model Certificate
type Certificate struct {
	UUIDBase
	AttemptID        string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"attemptId"`
	FolioNumber      int64          `gorm:"uniqueIndex;not null" json:"folioNumber"`
	FolioCode        string         `gorm:"size:40;uniqueIndex;not null" json:"folioCode"`
	VerifyCode       string         `gorm:"size:40;index;not null" json:"verifyCode"`
	FullName         string         `gorm:"size:120;not null" json:"fullName"`
	CollegiateNumber string         `gorm:"size:50;not null" json:"collegiateNumber"`
	CourseTitle      string         `gorm:"size:255;not null" json:"courseTitle"`
	DurationSeconds  int            `gorm:"default:0" json:"durationSeconds"`
	SettingsSnapshot datatypes.JSON `gorm:"type:json" json:"settingsSnapshot"`
	IssuedAt         time.Time      `gorm:"not null" json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// FolioCounter is the single-row sequence behind folio allocation. The row is
// locked and bumped inside the issuance transaction so two overlapping
// issuances can never read the same value.
type FolioCounter struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	NextNumber int64 `gorm:"not null" json:"nextNumber"`
}

func (FolioCounter) TableName() string {
	return "folio_counters"
}
