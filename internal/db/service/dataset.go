package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evalstack/evalstore/internal/db/models"
)

// DatasetRepositoryImpl provides dataset lifecycle operations. The version
// counter is owned by the item repository; nothing here ever bumps it.
type DatasetRepositoryImpl struct {
	db *gorm.DB
}

// NewDatasetRepository creates a new dataset repository.
func NewDatasetRepository(db *gorm.DB) models.DatasetRepository {
	return &DatasetRepositoryImpl{db: db}
}

// Create inserts a new dataset at version 0 with no items.
func (r *DatasetRepositoryImpl) Create(name, description string) (*models.Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	ds := &models.Dataset{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Version:     0,
	}
	if err := r.db.Create(ds).Error; err != nil {
		return nil, backendErr("create dataset", "", "", err)
	}
	return ds, nil
}

// GetByID retrieves a dataset by id, or nil when none exists.
func (r *DatasetRepositoryImpl) GetByID(id string) (*models.Dataset, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}

	var ds models.Dataset
	if err := r.db.First(&ds, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, backendErr("get dataset", id, "", err)
	}
	return &ds, nil
}

// Update merges the non-versioned fields (name, description). It never
// touches the version counter.
func (r *DatasetRepositoryImpl) Update(id string, update models.DatasetUpdate) (*models.Dataset, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}

	if len(fields) > 0 {
		result := r.db.Model(&models.Dataset{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, backendErr("update dataset", id, "", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrDatasetNotFound
		}
	}

	ds, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, ErrDatasetNotFound
	}
	return ds, nil
}

// Delete removes the dataset row and cascades over its item and version
// rows in one transaction. Deleting a nonexistent dataset is a no-op.
func (r *DatasetRepositoryImpl) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&models.DatasetItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.DatasetVersion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Dataset{}).Error
	})
	if err != nil {
		return backendErr("delete dataset", id, "", err)
	}
	return nil
}

// List returns a page of datasets ordered by creation time.
func (r *DatasetRepositoryImpl) List(options models.DatasetListOptions) (*models.ListWrapper[models.Dataset], error) {
	buildQuery := func(base *gorm.DB) *gorm.DB {
		q := base.Model(&models.Dataset{})
		if options.Name != nil && *options.Name != "" {
			q = q.Where("name LIKE ?", "%"+*options.Name+"%")
		}
		return q
	}

	var total int64
	if err := buildQuery(r.db).Count(&total).Error; err != nil {
		return nil, backendErr("list datasets", "", "", err)
	}

	offset, limit := options.OffsetLimit()
	var datasets []models.Dataset
	if err := buildQuery(r.db).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&datasets).Error; err != nil {
		return nil, backendErr("list datasets", "", "", err)
	}

	return &models.ListWrapper[models.Dataset]{
		Items:    datasets,
		PageInfo: models.NewPageInfo(options.Pagination, total),
	}, nil
}

// DangerouslyClearAll truncates all three dataset tables, history
// included. For tests and debugging only.
func DangerouslyClearAll(db *gorm.DB) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.DatasetItem{},
			&models.DatasetVersion{},
			&models.Dataset{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return backendErr("clear all", "", "", err)
	}
	return nil
}
