package db

import (
	"fmt"

	"gorm.io/gorm"

	"toiletadvisor/internal/model"
)

// Migrate creates or updates the schema. When reset is true every table is
// dropped first, children before parents.
func Migrate(db *gorm.DB, reset bool) error {
	models := model.All()

	if reset {
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
