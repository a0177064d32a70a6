package models

import (
	"time"
)

// Dataset is the GORM model for a named collection of evaluation records.
// Version is the highest version number ever assigned to the dataset; it
// starts at 0 and every item-level mutation, single or bulk, advances it
// by exactly one. Metadata-only updates (name, description) never touch it.
type Dataset struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Version     int64     `gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName returns the GORM table name.
func (Dataset) TableName() string { return "datasets" }

// DatasetUpdate carries the non-versioned dataset fields. Nil fields are
// left untouched.
type DatasetUpdate struct {
	Name        *string
	Description *string
}

// DatasetListOptions contains options for listing datasets.
type DatasetListOptions struct {
	Pagination
	Name *string
}

// DatasetRepository is the interface for dataset lifecycle operations.
type DatasetRepository interface {
	Create(name, description string) (*Dataset, error)
	GetByID(id string) (*Dataset, error)
	Update(id string, update DatasetUpdate) (*Dataset, error)
	Delete(id string) error
	List(options DatasetListOptions) (*ListWrapper[Dataset], error)
}
