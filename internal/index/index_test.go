package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlat_AddAssignsMonotonicSlots(t *testing.T) {
	idx, err := NewFlat(3)
	require.NoError(t, err)

	for want := 0; want < 4; want++ {
		slot, err := idx.Add([]float32{1, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, want, slot)
	}
	assert.Equal(t, 4, idx.Slots())
	assert.Equal(t, 4, idx.Live())
}

func TestFlat_AddRejectsWrongDimension(t *testing.T) {
	idx, err := NewFlat(3)
	require.NoError(t, err)

	_, err = idx.Add([]float32{1, 0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFlat_SearchOrdersByDescendingScore(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	_, err = idx.Add([]float32{0, 1}) // orthogonal to query
	require.NoError(t, err)
	_, err = idx.Add([]float32{1, 0}) // identical to query
	require.NoError(t, err)
	_, err = idx.Add([]float32{0.7071, 0.7071}) // 45 degrees
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Slot)
	assert.Equal(t, 2, hits[1].Slot)
	assert.Equal(t, 0, hits[2].Slot)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Greater(t, hits[1].Score, hits[2].Score)
}

func TestFlat_SearchBreaksTiesByAscendingSlot(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	// Identical vectors produce identical scores; the earlier slot must win.
	for i := 0; i < 3; i++ {
		_, err := idx.Add([]float32{1, 0})
		require.NoError(t, err)
	}

	hits, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{hits[0].Slot, hits[1].Slot, hits[2].Slot})
}

func TestFlat_SearchTruncatesToK(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := idx.Add([]float32{1, 0})
		require.NoError(t, err)
	}

	hits, err := idx.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestFlat_SearchEmptyIndex(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlat_RemoveExcludesSlotFromSearch(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	slot0, err := idx.Add([]float32{1, 0})
	require.NoError(t, err)
	slot1, err := idx.Add([]float32{0, 1})
	require.NoError(t, err)

	require.NoError(t, idx.Remove(slot0))
	assert.False(t, idx.IsLive(slot0))
	assert.True(t, idx.IsLive(slot1))
	assert.Equal(t, 1, idx.Live())
	assert.Equal(t, 2, idx.Slots())

	hits, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, slot1, hits[0].Slot)

	// Slot numbering keeps growing after a removal; slots are never reused.
	slot2, err := idx.Add([]float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, slot2)
}

func TestFlat_RemoveInvalidSlot(t *testing.T) {
	idx, err := NewFlat(2)
	require.NoError(t, err)

	assert.ErrorIs(t, idx.Remove(0), ErrInvalidSlot)
	assert.ErrorIs(t, idx.Remove(-1), ErrInvalidSlot)
}

func TestFlat_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	idx, err := NewFlat(2)
	require.NoError(t, err)
	_, err = idx.Add([]float32{1, 0})
	require.NoError(t, err)
	_, err = idx.Add([]float32{0, 1})
	require.NoError(t, err)
	require.NoError(t, idx.Remove(0))

	require.NoError(t, idx.Save(path))

	loaded, err := LoadFlat(path, 2)
	require.NoError(t, err)
	assert.Equal(t, idx.Slots(), loaded.Slots())
	assert.Equal(t, idx.Live(), loaded.Live())
	assert.False(t, loaded.IsLive(0))
	assert.True(t, loaded.IsLive(1))

	hits, err := loaded.Search([]float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Slot)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestLoadFlat_MissingFileYieldsEmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	loaded, err := LoadFlat(path, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Slots())
	assert.Equal(t, 4, loaded.Dimension())
}

func TestLoadFlat_DimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")

	idx, err := NewFlat(2)
	require.NoError(t, err)
	require.NoError(t, idx.Save(path))

	_, err = LoadFlat(path, 3)
	assert.Error(t, err)
}
