package exercise

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three pieces stacked vertically, 30px tall each: midpoints at 15, 45, 75.
var stackedBoxes = []Box{
	{Left: 0, Top: 0, Width: 100, Height: 30},
	{Left: 0, Top: 30, Width: 100, Height: 30},
	{Left: 0, Top: 60, Width: 100, Height: 30},
}

func TestInsertionIndexVertical(t *testing.T) {
	assert.Equal(t, 0, InsertionIndex(stackedBoxes, Vertical, 0, 10))
	assert.Equal(t, 1, InsertionIndex(stackedBoxes, Vertical, 0, 15))
	assert.Equal(t, 1, InsertionIndex(stackedBoxes, Vertical, 0, 44))
	assert.Equal(t, 2, InsertionIndex(stackedBoxes, Vertical, 0, 60))
	assert.Equal(t, 3, InsertionIndex(stackedBoxes, Vertical, 0, 200))
}

func TestInsertionIndexHorizontal(t *testing.T) {
	boxes := []Box{
		{Left: 0, Top: 0, Width: 40, Height: 20},
		{Left: 40, Top: 0, Width: 40, Height: 20},
	}
	assert.Equal(t, 0, InsertionIndex(boxes, Horizontal, 10, 0))
	assert.Equal(t, 1, InsertionIndex(boxes, Horizontal, 30, 0))
	assert.Equal(t, 2, InsertionIndex(boxes, Horizontal, 90, 0))
}

func TestInsertionIndexEmpty(t *testing.T) {
	assert.Equal(t, 0, InsertionIndex(nil, Vertical, 0, 50))
}

func TestArrangementDragDrop(t *testing.T) {
	a := &Arrangement{order: []string{"Ich", "heiße", "Anna"}, dragging: -1}

	// drag "Anna" above everything
	require.True(t, a.BeginDrag(2))
	a.Drop(stackedBoxes[:2], Vertical, 0, 5)
	assert.Equal(t, []string{"Anna", "Ich", "heiße"}, a.Order())

	// drag "Anna" back past the last midpoint
	require.True(t, a.BeginDrag(0))
	a.Drop(stackedBoxes[:2], Vertical, 0, 100)
	assert.Equal(t, []string{"Ich", "heiße", "Anna"}, a.Order())
}

func TestArrangementCancelDrag(t *testing.T) {
	a := &Arrangement{order: []string{"a", "b"}, dragging: -1}

	require.True(t, a.BeginDrag(1))
	a.CancelDrag()
	a.Drop(stackedBoxes[:1], Vertical, 0, 0) // no gesture in flight
	assert.Equal(t, []string{"a", "b"}, a.Order())
}

func TestArrangementBadDragIndex(t *testing.T) {
	a := &Arrangement{order: []string{"a"}, dragging: -1}
	assert.False(t, a.BeginDrag(-1))
	assert.False(t, a.BeginDrag(1))
}

func TestNewArrangementKeepsPieces(t *testing.T) {
	pieces := []string{"Das", "ist", "mein", "Haus"}
	a := newArrangement(pieces, rand.New(rand.NewSource(7)))
	assert.True(t, samePieces(pieces, a.Order()))
	// the source slice is untouched
	assert.Equal(t, []string{"Das", "ist", "mein", "Haus"}, pieces)
}

func TestSamePieces(t *testing.T) {
	assert.True(t, samePieces([]string{"a", "b", "b"}, []string{"b", "a", "b"}))
	assert.False(t, samePieces([]string{"a", "b"}, []string{"a", "a"}))
	assert.False(t, samePieces([]string{"a"}, []string{"a", "a"}))
}
