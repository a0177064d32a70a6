package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		pagination Pagination
		wantOffset int
		wantLimit  int
	}{
		{"defaults", Pagination{}, 0, DefaultPerPage},
		{"first page", Pagination{Page: 0, PerPage: 10}, 0, 10},
		{"third page", Pagination{Page: 2, PerPage: 25}, 50, 25},
		{"negative page clamps to zero", Pagination{Page: -1, PerPage: 10}, 0, 10},
		{"per-page capped", Pagination{Page: 1, PerPage: 500}, MaxPerPage, MaxPerPage},
		{"zero per-page defaults", Pagination{Page: 3}, 3 * DefaultPerPage, DefaultPerPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := tt.pagination.OffsetLimit()
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPageInfoHasMore(t *testing.T) {
	tests := []struct {
		name       string
		pagination Pagination
		total      int64
		wantMore   bool
	}{
		{"first of two pages", Pagination{Page: 0, PerPage: 2}, 3, true},
		{"last partial page", Pagination{Page: 1, PerPage: 2}, 3, false},
		{"exact fit", Pagination{Page: 0, PerPage: 3}, 3, false},
		{"empty result", Pagination{Page: 0, PerPage: 10}, 0, false},
		{"page past the end", Pagination{Page: 5, PerPage: 10}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.pagination, tt.total)
			assert.Equal(t, tt.wantMore, info.HasMore)
			assert.Equal(t, tt.total, info.Total)
		})
	}
}
