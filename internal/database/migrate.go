package database

import (
	"gorm.io/gorm"

	"github.com/cinefeed/backend/internal/models"
)

// RunMigrations brings the schema up to date. Auto-migration is enough
// here: the schema is two small tables and applies identically to SQLite
// and Postgres.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Message{},
		&models.User{},
	)
}
