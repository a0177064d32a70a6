package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evalstack/evalstore/internal/db/models"
)

// DatasetVersionRepositoryImpl serves the version audit log. Regular audit
// rows are written by the item repository inside its mutation
// transactions; Create here is the out-of-band escape hatch.
type DatasetVersionRepositoryImpl struct {
	db *gorm.DB
}

// NewDatasetVersionRepository creates a new version repository.
func NewDatasetVersionRepository(db *gorm.DB) models.DatasetVersionRepository {
	return &DatasetVersionRepositoryImpl{db: db}
}

// Create stamps an out-of-band version marker (migration bookkeeping)
// without writing item rows. When the marker is ahead of the dataset's
// counter, the counter is raised to it so later bumps never reuse the
// number. The unique (dataset_id, version) index rejects duplicates.
func (r *DatasetVersionRepositoryImpl) Create(datasetID string, version int64) (*models.DatasetVersion, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}
	if version <= 0 {
		return nil, fmt.Errorf("%w: version must be positive", ErrInvalidArgument)
	}

	var row *models.DatasetVersion
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ds, err := lockDataset(tx, datasetID)
		if err != nil {
			return err
		}

		row = &models.DatasetVersion{
			ID:        uuid.New().String(),
			DatasetID: datasetID,
			Version:   version,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		if version > ds.Version {
			return tx.Model(&models.Dataset{}).
				Where("id = ?", datasetID).
				Update("version", version).Error
		}
		return nil
	})
	if err != nil {
		return nil, backendErr("create dataset version", datasetID, "", err)
	}
	return row, nil
}

// List returns a page of the dataset's version audit rows, newest first.
func (r *DatasetVersionRepositoryImpl) List(options models.DatasetVersionListOptions) (*models.ListWrapper[models.DatasetVersion], error) {
	if options.DatasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	buildQuery := func(base *gorm.DB) *gorm.DB {
		return base.Model(&models.DatasetVersion{}).Where("dataset_id = ?", options.DatasetID)
	}

	var total int64
	if err := buildQuery(r.db).Count(&total).Error; err != nil {
		return nil, backendErr("list dataset versions", options.DatasetID, "", err)
	}

	offset, limit := options.OffsetLimit()
	var versions []models.DatasetVersion
	if err := buildQuery(r.db).
		Order("version DESC").
		Offset(offset).Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, backendErr("list dataset versions", options.DatasetID, "", err)
	}

	return &models.ListWrapper[models.DatasetVersion]{
		Items:    versions,
		PageInfo: models.NewPageInfo(options.Pagination, total),
	}, nil
}
