package models

import "time"

type Event struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `gorm:"index" json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	IsActive    bool       `gorm:"index" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
