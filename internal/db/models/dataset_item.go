package models

import (
	"time"

	"gorm.io/datatypes"
)

// DatasetItem is one SCD-2 row of a logical item. A logical item keeps its
// ID across every historical row; each mutation closes the previous row
// (setting ValidTo) and inserts a new one at the dataset version that the
// mutation produced. The row whose ValidTo is NULL is the head: the current
// value, or a tombstone when IsDeleted is set.
//
// A row is effective for the half-open version range
// [DatasetVersion, ValidTo); ValidTo NULL means still effective.
type DatasetItem struct {
	ID             string         `gorm:"primaryKey;column:id;type:varchar(36)"`
	DatasetVersion int64          `gorm:"primaryKey;autoIncrement:false;column:dataset_version;index:idx_item_dataset_version,priority:2"`
	DatasetID      string         `gorm:"column:dataset_id;type:varchar(36);index:idx_item_head,priority:1;index:idx_item_dataset_version,priority:1;index:idx_item_current,priority:1;not null"`
	ValidTo        *int64         `gorm:"column:valid_to;index:idx_item_head,priority:2;index:idx_item_current,priority:2"`
	IsDeleted      bool           `gorm:"column:is_deleted;index:idx_item_current,priority:3;not null;default:false"`
	Input          datatypes.JSON `gorm:"column:input"`
	GroundTruth    datatypes.JSON `gorm:"column:ground_truth"`
	Metadata       datatypes.JSON `gorm:"column:metadata"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null"`
}

// TableName returns the GORM table name.
func (DatasetItem) TableName() string { return "dataset_items" }

// IsHead reports whether this is the currently effective row for its item.
func (i *DatasetItem) IsHead() bool { return i.ValidTo == nil }

// EffectiveAt reports whether the row was effective at the given version.
func (i *DatasetItem) EffectiveAt(version int64) bool {
	return i.DatasetVersion <= version && (i.ValidTo == nil || *i.ValidTo > version)
}

// AddItemParams are the inputs for adding a single item.
type AddItemParams struct {
	DatasetID   string
	Input       datatypes.JSON
	GroundTruth datatypes.JSON
	Metadata    datatypes.JSON
}

// UpdateItemParams are the inputs for updating a single item. Nil fields
// keep the value carried by the current head row.
type UpdateItemParams struct {
	ID          string
	DatasetID   string
	Input       datatypes.JSON
	GroundTruth datatypes.JSON
	Metadata    datatypes.JSON
}

// NewItem is one entry of a bulk add batch.
type NewItem struct {
	Input       datatypes.JSON
	GroundTruth datatypes.JSON
	Metadata    datatypes.JSON
}

// DatasetItemListOptions contains options for listing items. With a nil
// Version the listing covers current items; with a Version it reconstructs
// the dataset contents as of that version. Search matches a
// case-insensitive substring of the serialized input and ground truth.
type DatasetItemListOptions struct {
	Pagination
	DatasetID string
	Version   *int64
	Search    string
}

// DatasetItemRepository is the interface for item-level SCD-2 operations.
type DatasetItemRepository interface {
	Add(params AddItemParams) (*DatasetItem, error)
	Update(params UpdateItemParams) (*DatasetItem, error)
	Delete(id, datasetID string) error
	BulkAdd(datasetID string, items []NewItem) ([]DatasetItem, error)
	BulkDelete(datasetID string, ids []string) error
	GetByID(id string, atVersion *int64) (*DatasetItem, error)
	GetByVersion(datasetID string, version int64) ([]DatasetItem, error)
	History(id string) ([]DatasetItem, error)
	List(options DatasetItemListOptions) (*ListWrapper[DatasetItem], error)
	CountCurrent(datasetID string) (int64, error)
}
