// Package schema owns the DDL for the dataset store tables.
package schema

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/evalstack/evalstore/internal/db/models"
)

// Migrate creates or updates the datasets, dataset_items and
// dataset_versions tables. Indexes are declared on the model tags and
// created as part of the same pass.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Dataset{},
		&models.DatasetItem{},
		&models.DatasetVersion{},
	); err != nil {
		return fmt.Errorf("migrate dataset schema: %w", err)
	}
	return nil
}
