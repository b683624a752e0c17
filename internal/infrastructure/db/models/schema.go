package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables of every model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&User{}, &Contract{}, &Yield{}, &BatchRun{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
