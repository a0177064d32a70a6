package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evalstack/evalstore/internal/db/models"
)

// DatasetItemRepositoryImpl implements the SCD-2 item operations. Every
// mutation runs inside one transaction that locks the dataset row, advances
// the version counter by exactly one, records the audit row, closes any
// superseded item rows and inserts the new rows, all stamped with the same
// version number.
type DatasetItemRepositoryImpl struct {
	db *gorm.DB
}

// NewDatasetItemRepository creates a new item repository.
func NewDatasetItemRepository(db *gorm.DB) models.DatasetItemRepository {
	return &DatasetItemRepositoryImpl{db: db}
}

// lockDataset loads the dataset row under SELECT ... FOR UPDATE.
// Engines without row locking (SQLite) reject the FOR UPDATE clause; those
// fall back to a plain read and rely on the guarded update in
// allocateVersion to catch lost races.
func lockDataset(tx *gorm.DB, datasetID string) (*models.Dataset, error) {
	var ds models.Dataset
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ds, "id = ?", datasetID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		err = tx.First(&ds, "id = ?", datasetID).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// allocateVersion advances the locked dataset's version counter by one and
// records the audit row. The update is guarded on the version the caller
// read; zero rows affected means another writer got there first and the
// transaction must roll back with ErrVersionConflict.
func allocateVersion(tx *gorm.DB, ds *models.Dataset) (int64, error) {
	next := ds.Version + 1

	result := tx.Model(&models.Dataset{}).
		Where("id = ? AND version = ?", ds.ID, ds.Version).
		Update("version", next)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrVersionConflict
	}

	audit := &models.DatasetVersion{
		ID:        uuid.New().String(),
		DatasetID: ds.ID,
		Version:   next,
	}
	if err := tx.Create(audit).Error; err != nil {
		return 0, err
	}
	return next, nil
}

// Add inserts a new item as an open row at the dataset's next version.
func (r *DatasetItemRepositoryImpl) Add(params models.AddItemParams) (*models.DatasetItem, error) {
	if params.DatasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}
	if len(params.Input) == 0 {
		return nil, fmt.Errorf("%w: input is required", ErrInvalidArgument)
	}

	var item *models.DatasetItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ds, err := lockDataset(tx, params.DatasetID)
		if err != nil {
			return err
		}
		version, err := allocateVersion(tx, ds)
		if err != nil {
			return err
		}

		item = &models.DatasetItem{
			ID:             uuid.New().String(),
			DatasetID:      params.DatasetID,
			DatasetVersion: version,
			Input:          params.Input,
			GroundTruth:    params.GroundTruth,
			Metadata:       params.Metadata,
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, backendErr("add item", params.DatasetID, "", err)
	}
	return item, nil
}

// Update closes the item's head row and inserts a new open row carrying
// the merged fields. Nil params keep the head row's values.
func (r *DatasetItemRepositoryImpl) Update(params models.UpdateItemParams) (*models.DatasetItem, error) {
	if params.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}
	if params.DatasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	var item *models.DatasetItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the dataset before reading the head so a concurrent writer
		// cannot close it underneath us.
		ds, err := lockDataset(tx, params.DatasetID)
		if err != nil {
			return err
		}

		var head models.DatasetItem
		err = tx.Where("id = ? AND dataset_id = ? AND valid_to IS NULL AND is_deleted = ?",
			params.ID, params.DatasetID, false).First(&head).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		version, err := allocateVersion(tx, ds)
		if err != nil {
			return err
		}

		if err := closeRow(tx, &head, version); err != nil {
			return err
		}

		next := models.DatasetItem{
			ID:             head.ID,
			DatasetID:      head.DatasetID,
			DatasetVersion: version,
			Input:          head.Input,
			GroundTruth:    head.GroundTruth,
			Metadata:       head.Metadata,
		}
		if params.Input != nil {
			next.Input = params.Input
		}
		if params.GroundTruth != nil {
			next.GroundTruth = params.GroundTruth
		}
		if params.Metadata != nil {
			next.Metadata = params.Metadata
		}
		if err := tx.Create(&next).Error; err != nil {
			return err
		}
		item = &next
		return nil
	})
	if err != nil {
		return nil, backendErr("update item", params.DatasetID, params.ID, err)
	}
	return item, nil
}

// Delete closes the item's head row and inserts a tombstone. Deleting an
// item that does not exist or is already tombstoned is a no-op: no version
// bump, no audit row. The item disappears from current reads while its
// full history, tombstone included, stays queryable.
func (r *DatasetItemRepositoryImpl) Delete(id, datasetID string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}
	if datasetID == "" {
		return fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		ds, err := lockDataset(tx, datasetID)
		if err != nil {
			return err
		}

		var head models.DatasetItem
		err = tx.Where("id = ? AND dataset_id = ? AND valid_to IS NULL AND is_deleted = ?",
			id, datasetID, false).First(&head).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		version, err := allocateVersion(tx, ds)
		if err != nil {
			return err
		}

		if err := closeRow(tx, &head, version); err != nil {
			return err
		}
		return tx.Create(tombstoneOf(&head, version)).Error
	})
	if err != nil {
		return backendErr("delete item", datasetID, id, err)
	}
	return nil
}

// BulkAdd inserts a batch of items under a single version bump: one audit
// row, every inserted row stamped with the same version.
func (r *DatasetItemRepositoryImpl) BulkAdd(datasetID string, items []models.NewItem) ([]models.DatasetItem, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items must not be empty", ErrInvalidArgument)
	}
	for i, it := range items {
		if len(it.Input) == 0 {
			return nil, fmt.Errorf("%w: items[%d].input is required", ErrInvalidArgument, i)
		}
	}

	var rows []models.DatasetItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ds, err := lockDataset(tx, datasetID)
		if err != nil {
			return err
		}
		version, err := allocateVersion(tx, ds)
		if err != nil {
			return err
		}

		rows = make([]models.DatasetItem, 0, len(items))
		for _, it := range items {
			rows = append(rows, models.DatasetItem{
				ID:             uuid.New().String(),
				DatasetID:      datasetID,
				DatasetVersion: version,
				Input:          it.Input,
				GroundTruth:    it.GroundTruth,
				Metadata:       it.Metadata,
			})
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
	if err != nil {
		return nil, backendErr("bulk add items", datasetID, "", err)
	}
	return rows, nil
}

// BulkDelete tombstones the given items under a single version bump. Ids
// with no open, non-deleted head are skipped; when every id is a no-op the
// version is not bumped at all.
func (r *DatasetItemRepositoryImpl) BulkDelete(datasetID string, ids []string) error {
	if datasetID == "" {
		return fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: itemIds must not be empty", ErrInvalidArgument)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		ds, err := lockDataset(tx, datasetID)
		if err != nil {
			return err
		}

		var heads []models.DatasetItem
		if err := tx.Where("dataset_id = ? AND id IN ? AND valid_to IS NULL AND is_deleted = ?",
			datasetID, ids, false).Find(&heads).Error; err != nil {
			return err
		}
		if len(heads) == 0 {
			return nil
		}

		version, err := allocateVersion(tx, ds)
		if err != nil {
			return err
		}

		tombstones := make([]models.DatasetItem, 0, len(heads))
		for i := range heads {
			if err := closeRow(tx, &heads[i], version); err != nil {
				return err
			}
			tombstones = append(tombstones, *tombstoneOf(&heads[i], version))
		}
		return tx.CreateInBatches(&tombstones, 100).Error
	})
	if err != nil {
		return backendErr("bulk delete items", datasetID, "", err)
	}
	return nil
}

// closeRow marks a head row as superseded at the given version. History
// rows are otherwise immutable; this is the only in-place write on
// dataset_items.
func closeRow(tx *gorm.DB, row *models.DatasetItem, version int64) error {
	return tx.Model(&models.DatasetItem{}).
		Where("id = ? AND dataset_version = ?", row.ID, row.DatasetVersion).
		Update("valid_to", version).Error
}

// tombstoneOf builds the open deletion marker row for a closed head.
func tombstoneOf(head *models.DatasetItem, version int64) *models.DatasetItem {
	return &models.DatasetItem{
		ID:             head.ID,
		DatasetID:      head.DatasetID,
		DatasetVersion: version,
		IsDeleted:      true,
		Input:          head.Input,
		GroundTruth:    head.GroundTruth,
		Metadata:       head.Metadata,
	}
}

// GetByID returns the item's head row, or nil when the item is deleted or
// never existed. With atVersion it returns the row whose effective range
// contains that version instead; that point-in-time row may be a tombstone.
func (r *DatasetItemRepositoryImpl) GetByID(id string, atVersion *int64) (*models.DatasetItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}

	query := r.db.Where("id = ?", id)
	if atVersion != nil {
		query = query.Where("dataset_version <= ? AND (valid_to IS NULL OR valid_to > ?)",
			*atVersion, *atVersion)
	} else {
		query = query.Where("valid_to IS NULL AND is_deleted = ?", false)
	}

	var item models.DatasetItem
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, backendErr("get item", "", id, err)
	}
	return &item, nil
}

// GetByVersion reconstructs the dataset contents as they existed at the
// given version: for every item the row effective at that version,
// tombstones excluded.
func (r *DatasetItemRepositoryImpl) GetByVersion(datasetID string, version int64) ([]models.DatasetItem, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	var items []models.DatasetItem
	err := r.db.
		Where("dataset_id = ? AND dataset_version <= ? AND (valid_to IS NULL OR valid_to > ?) AND is_deleted = ?",
			datasetID, version, version, false).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, backendErr("get items by version", datasetID, "", err)
	}
	return items, nil
}

// History returns every row ever written for the item, newest version
// first: the complete audit trail including closed rows and tombstones.
func (r *DatasetItemRepositoryImpl) History(id string) ([]models.DatasetItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}

	var items []models.DatasetItem
	err := r.db.Where("id = ?", id).
		Order("dataset_version DESC").
		Find(&items).Error
	if err != nil {
		return nil, backendErr("get item history", "", id, err)
	}
	return items, nil
}

// List returns a page of items. It defaults to the current, non-deleted
// items; with a version it pages over the point-in-time snapshot instead.
func (r *DatasetItemRepositoryImpl) List(options models.DatasetItemListOptions) (*models.ListWrapper[models.DatasetItem], error) {
	if options.DatasetID == "" {
		return nil, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	buildQuery := func(base *gorm.DB) *gorm.DB {
		q := base.Model(&models.DatasetItem{}).Where("dataset_id = ?", options.DatasetID)
		if options.Version != nil {
			q = q.Where("dataset_version <= ? AND (valid_to IS NULL OR valid_to > ?)",
				*options.Version, *options.Version)
		} else {
			q = q.Where("valid_to IS NULL")
		}
		q = q.Where("is_deleted = ?", false)
		if options.Search != "" {
			q = applySearch(q, options.Search)
		}
		return q
	}

	var total int64
	if err := buildQuery(r.db).Count(&total).Error; err != nil {
		return nil, backendErr("list items", options.DatasetID, "", err)
	}

	offset, limit := options.OffsetLimit()
	var items []models.DatasetItem
	if err := buildQuery(r.db).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, backendErr("list items", options.DatasetID, "", err)
	}

	return &models.ListWrapper[models.DatasetItem]{
		Items:    items,
		PageInfo: models.NewPageInfo(options.Pagination, total),
	}, nil
}

// applySearch matches a case-insensitive substring against the serialized
// input and ground truth blobs. Postgres compares case-sensitively and
// needs text casts for JSON columns, MySQL needs an explicit CHAR cast;
// SQLite LIKE is already case-insensitive on its stored text.
func applySearch(q *gorm.DB, term string) *gorm.DB {
	pattern := "%" + term + "%"
	switch q.Dialector.Name() {
	case "postgres":
		return q.Where("input::text ILIKE ? OR ground_truth::text ILIKE ?", pattern, pattern)
	case "mysql":
		lower := "%" + lowerASCII(term) + "%"
		return q.Where("LOWER(CAST(input AS CHAR)) LIKE ? OR LOWER(CAST(ground_truth AS CHAR)) LIKE ?", lower, lower)
	default:
		return q.Where("input LIKE ? OR ground_truth LIKE ?", pattern, pattern)
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// CountCurrent counts the dataset's current, non-deleted items.
func (r *DatasetItemRepositoryImpl) CountCurrent(datasetID string) (int64, error) {
	if datasetID == "" {
		return 0, fmt.Errorf("%w: datasetId is required", ErrInvalidArgument)
	}

	var count int64
	err := r.db.Model(&models.DatasetItem{}).
		Where("dataset_id = ? AND valid_to IS NULL AND is_deleted = ?", datasetID, false).
		Count(&count).Error
	if err != nil {
		return 0, backendErr("count items", datasetID, "", err)
	}
	return count, nil
}
