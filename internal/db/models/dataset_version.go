package models

import (
	"time"
)

// DatasetVersion is one audit row per version bump. It enumerates a
// dataset's history independent of item content; the unique
// (dataset_id, version) index guarantees a version number is never
// recorded twice.
type DatasetVersion struct {
	ID        string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	DatasetID string    `gorm:"column:dataset_id;type:varchar(36);uniqueIndex:idx_version_dataset_number,priority:1;not null"`
	Version   int64     `gorm:"column:version;uniqueIndex:idx_version_dataset_number,priority:2;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName returns the GORM table name.
func (DatasetVersion) TableName() string { return "dataset_versions" }

// DatasetVersionListOptions contains options for listing version audit rows.
type DatasetVersionListOptions struct {
	Pagination
	DatasetID string
}

// DatasetVersionRepository is the interface for the version audit log.
type DatasetVersionRepository interface {
	Create(datasetID string, version int64) (*DatasetVersion, error)
	List(options DatasetVersionListOptions) (*ListWrapper[DatasetVersion], error)
}
