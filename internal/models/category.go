package models

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"index" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreCategory is the store <-> category join row.
type StoreCategory struct {
	StoreID    uint `gorm:"primaryKey;autoIncrement:false" json:"store_id"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
}

func (StoreCategory) TableName() string { return "store_categories" }
