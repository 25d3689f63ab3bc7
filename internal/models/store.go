package models

import "time"

const (
	StoreKindStore  = "store"
	StoreKindDining = "dining"
)

type Store struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;index" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Category    string `json:"category"` // legacy free-text category, first selected
	Floor       string `gorm:"index" json:"floor"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	Kind        string `gorm:"index;default:store" json:"kind"`

	Categories []Category `gorm:"many2many:store_categories;" json:"categories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
