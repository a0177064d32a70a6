package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/evalstack/evalstore/internal/db/models"
)

func TestVersionAuditTrailsEveryMutation(t *testing.T) {
	db := setupTestDB(t)
	items := NewDatasetItemRepository(db)
	versions := NewDatasetVersionRepository(db)
	ds := mustCreateDataset(t, db, "audited")

	item := addItem(t, items, ds.ID, `{"q":"v1"}`)
	_, err := items.Update(models.UpdateItemParams{
		ID: item.ID, DatasetID: ds.ID, Input: datatypes.JSON(`{"q":"v2"}`),
	})
	require.NoError(t, err)
	require.NoError(t, items.Delete(item.ID, ds.ID))

	result, err := versions.List(models.DatasetVersionListOptions{DatasetID: ds.ID})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)

	// Newest first.
	assert.Equal(t, int64(3), result.Items[0].Version)
	assert.Equal(t, int64(2), result.Items[1].Version)
	assert.Equal(t, int64(1), result.Items[2].Version)
}

func TestListVersionsPagination(t *testing.T) {
	db := setupTestDB(t)
	items := NewDatasetItemRepository(db)
	versions := NewDatasetVersionRepository(db)
	ds := mustCreateDataset(t, db, "paged-versions")

	for i := 0; i < 5; i++ {
		addItem(t, items, ds.ID, `{"q":"x"}`)
	}

	page0, err := versions.List(models.DatasetVersionListOptions{
		DatasetID:  ds.ID,
		Pagination: models.Pagination{Page: 0, PerPage: 3},
	})
	require.NoError(t, err)
	require.Len(t, page0.Items, 3)
	assert.Equal(t, int64(5), page0.PageInfo.Total)
	assert.True(t, page0.PageInfo.HasMore)
	assert.Equal(t, int64(5), page0.Items[0].Version)

	page1, err := versions.List(models.DatasetVersionListOptions{
		DatasetID:  ds.ID,
		Pagination: models.Pagination{Page: 1, PerPage: 3},
	})
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.False(t, page1.PageInfo.HasMore)
	assert.Equal(t, int64(1), page1.Items[1].Version)
}

func TestCreateOutOfBandMarker(t *testing.T) {
	db := setupTestDB(t)
	items := NewDatasetItemRepository(db)
	versions := NewDatasetVersionRepository(db)
	ds := mustCreateDataset(t, db, "marked")

	marker, err := versions.Create(ds.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), marker.Version)

	// The counter is raised so the marker's number is never reused.
	assert.Equal(t, int64(5), datasetVersion(t, db, ds.ID))

	item := addItem(t, items, ds.ID, `{"q":"after marker"}`)
	assert.Equal(t, int64(6), item.DatasetVersion)
}

func TestCreateMarkerAfterMutations(t *testing.T) {
	db := setupTestDB(t)
	items := NewDatasetItemRepository(db)
	versions := NewDatasetVersionRepository(db)
	ds := mustCreateDataset(t, db, "behind-marker")

	addItem(t, items, ds.ID, `{"q":"a"}`)
	addItem(t, items, ds.ID, `{"q":"b"}`)
	require.NoError(t, items.Delete("nonexistent", ds.ID)) // no-op, stays at 2

	_, err := versions.Create(ds.ID, 1)
	assert.Error(t, err, "version 1 already recorded by the first add")

	marker, err := versions.Create(ds.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marker.Version)
	assert.Equal(t, int64(3), datasetVersion(t, db, ds.ID))
}

func TestCreateMarkerDuplicateFails(t *testing.T) {
	db := setupTestDB(t)
	versions := NewDatasetVersionRepository(db)
	ds := mustCreateDataset(t, db, "dup-marker")

	_, err := versions.Create(ds.ID, 7)
	require.NoError(t, err)

	_, err = versions.Create(ds.ID, 7)
	require.Error(t, err)
	var be *BackendError
	assert.ErrorAs(t, err, &be, "unique violation surfaces as a backend error")
}

func TestCreateMarkerValidation(t *testing.T) {
	db := setupTestDB(t)
	versions := NewDatasetVersionRepository(db)

	_, err := versions.Create("", 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = versions.Create("ds", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = versions.Create("nonexistent", 1)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}
