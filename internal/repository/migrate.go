package repository

import (
	"fmt"

	"stocksense/internal/apperror"
	"stocksense/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the models. Used for sqlite databases and tests;
// postgres goes through the SQL files in migrations/.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("%w: auto migrate: %v", apperror.ErrStorage, err)
	}
	return nil
}
