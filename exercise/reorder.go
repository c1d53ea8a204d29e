package exercise

import "math/rand"

// Axis selects which coordinate the drop position is computed along.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Box is the rendered bounds of one piece, reported by the view layer.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

func (b Box) mid(axis Axis) float64 {
	if axis == Horizontal {
		return b.Left + b.Width/2
	}
	return b.Top + b.Height/2
}

// InsertionIndex returns where a dragged piece lands among its siblings:
// before the first sibling whose midpoint lies past the pointer, or at the
// end when the pointer is past every midpoint. boxes must be the bounds of
// the non-dragged siblings in display order.
func InsertionIndex(boxes []Box, axis Axis, x, y float64) int {
	pointer := y
	if axis == Horizontal {
		pointer = x
	}
	for i, b := range boxes {
		if pointer < b.mid(axis) {
			return i
		}
	}
	return len(boxes)
}

// Arrangement is the mutable word order of a reorder exercise. It starts
// shuffled and is rearranged by single-pointer drag gestures; pointer and
// touch feed the same BeginDrag/Drop sequence.
type Arrangement struct {
	order    []string
	dragging int // index of the piece being dragged, -1 when idle
}

func newArrangement(pieces []string, rng *rand.Rand) *Arrangement {
	order := make([]string, len(pieces))
	copy(order, pieces)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return &Arrangement{order: order, dragging: -1}
}

// Order returns the current arrangement.
func (a *Arrangement) Order() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// BeginDrag picks up the piece at index i. A second BeginDrag replaces the
// current gesture; there is no multi-touch.
func (a *Arrangement) BeginDrag(i int) bool {
	if i < 0 || i >= len(a.order) {
		return false
	}
	a.dragging = i
	return true
}

// Drop ends the gesture at pointer position (x, y). boxes are the bounds of
// the remaining pieces in display order, i.e. the arrangement without the
// dragged piece.
func (a *Arrangement) Drop(boxes []Box, axis Axis, x, y float64) {
	if a.dragging < 0 {
		return
	}
	to := InsertionIndex(boxes, axis, x, y)
	a.moveTo(a.dragging, to)
	a.dragging = -1
}

// CancelDrag abandons the current gesture without moving anything.
func (a *Arrangement) CancelDrag() {
	a.dragging = -1
}

// moveTo removes the piece at from and reinserts it at position to within
// the shortened list.
func (a *Arrangement) moveTo(from, to int) {
	if from < 0 || from >= len(a.order) {
		return
	}
	piece := a.order[from]
	rest := append(a.order[:from:from], a.order[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}
	a.order = append(rest[:to:to], append([]string{piece}, rest[to:]...)...)
}

// set replaces the whole arrangement. The caller has already verified the
// new order uses exactly the original pieces.
func (a *Arrangement) set(order []string) {
	a.order = make([]string, len(order))
	copy(a.order, order)
}

// samePieces reports whether two word lists are equal as multisets.
func samePieces(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, w := range a {
		counts[w]++
	}
	for _, w := range b {
		counts[w]--
		if counts[w] < 0 {
			return false
		}
	}
	return true
}
