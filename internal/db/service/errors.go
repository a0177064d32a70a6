package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetNotFound is returned by mutations that target a dataset
	// id with no dataset row. Plain reads return nil instead.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrItemNotFound is returned by Update when the item has no open,
	// non-deleted head row.
	ErrItemNotFound = errors.New("dataset item not found")

	// ErrInvalidArgument marks malformed input rejected before any
	// storage access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrVersionConflict is returned when a concurrent mutation advanced
	// the dataset version between this call's read and its guarded write.
	// The whole transaction rolls back; retry with RetryOnConflict.
	ErrVersionConflict = errors.New("dataset version conflict")
)

// BackendError wraps a storage backend failure (connectivity, constraint
// violation, driver error) with the operation context, so callers can tell
// infrastructure failures apart from user error.
type BackendError struct {
	Op        string
	DatasetID string
	ItemID    string
	Err       error
}

func (e *BackendError) Error() string {
	msg := e.Op
	if e.DatasetID != "" {
		msg += " dataset=" + e.DatasetID
	}
	if e.ItemID != "" {
		msg += " item=" + e.ItemID
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// backendErr wraps err unless it is already one of the package's domain
// errors, which pass through untouched for errors.Is checks.
func backendErr(op, datasetID, itemID string, err error) error {
	if isDomainErr(err) {
		return err
	}
	return &BackendError{Op: op, DatasetID: datasetID, ItemID: itemID, Err: err}
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrDatasetNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrVersionConflict)
}
