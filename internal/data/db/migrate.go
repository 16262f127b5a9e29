package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/textbook-backend/internal/domain/progress"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&progress.Entry{},
	)
}
