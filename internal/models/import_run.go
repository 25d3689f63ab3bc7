package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunKindStores = "stores"
	RunKindLogos  = "logos"

	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
)

// ImportRun records one commit loop (spreadsheet import or logo upload).
type ImportRun struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Kind           string     `gorm:"index" json:"kind"`
	Filename       string     `json:"filename"`
	Total          int        `json:"total"`
	ProcessedCount int        `json:"processed_count"`
	SucceededCount int        `json:"succeeded_count"`
	FailedCount    int        `json:"failed_count"`
	SkippedCount   int        `json:"skipped_count"`
	Status         string     `gorm:"index" json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
