package models

import (
	"time"

	"gorm.io/datatypes"
)

const SettingHomepageSlides = "homepage_slides"

type SiteSetting struct {
	Key       string         `gorm:"primaryKey" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}
