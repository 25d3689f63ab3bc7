package models

import (
	"time"

	"github.com/google/uuid"
)

type LogoAuditLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RunID        uuid.UUID `gorm:"type:uuid;index" json:"run_id"`
	StoreID      uint      `gorm:"index" json:"store_id"`
	FileName     string    `json:"file_name"`
	PreviousLogo string    `json:"previous_logo"`
	NewLogo      string    `json:"new_logo"`
	Score        int       `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}
