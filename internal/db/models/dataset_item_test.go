package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveAt(t *testing.T) {
	closedAt := int64(3)
	closed := DatasetItem{DatasetVersion: 1, ValidTo: &closedAt}
	open := DatasetItem{DatasetVersion: 3}

	assert.True(t, closed.EffectiveAt(1))
	assert.True(t, closed.EffectiveAt(2))
	assert.False(t, closed.EffectiveAt(3), "effective range is half-open")
	assert.False(t, open.EffectiveAt(2))
	assert.True(t, open.EffectiveAt(3))
	assert.True(t, open.EffectiveAt(100))

	assert.False(t, closed.IsHead())
	assert.True(t, open.IsHead())
}
