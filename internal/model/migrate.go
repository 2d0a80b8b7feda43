package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for the tables owned by the postgres cache backend.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&CacheSnapshot{})
}
