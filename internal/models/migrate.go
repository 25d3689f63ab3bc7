package models

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Store{}, "Categories", &StoreCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&Category{},
		&Store{},
		&StoreCategory{},
		&Event{},
		&MallService{},
		&SiteSetting{},
		&ImportRun{},
		&LogoAuditLog{},
	)
}
