package models

import "gorm.io/gorm"

// Migrate creates or updates every table of the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Tag{},
		&SavedPaper{},
		&PaperInteraction{},
		&Follow{},
	)
}
