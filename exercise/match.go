package exercise

import "math/rand"

// Board is the interactive state of a match exercise: two columns, a
// transient selection on each side, and the set of matched terms. The right
// column is shuffled independently of the left. Left terms are unique;
// right texts may repeat (two sources can share a translation), so the
// right side is tracked by position, not by text.
type Board struct {
	expected map[string]string // source term -> expected translation
	left     []string
	right    []string

	selLeft  string
	selRight int // index into right, -1 when none

	matchedLeft  map[string]bool
	matchedRight []bool
}

func newBoard(pairs []Pair, rng *rand.Rand) *Board {
	b := &Board{
		expected:     make(map[string]string, len(pairs)),
		left:         make([]string, 0, len(pairs)),
		right:        make([]string, 0, len(pairs)),
		selRight:     -1,
		matchedLeft:  make(map[string]bool, len(pairs)),
		matchedRight: make([]bool, len(pairs)),
	}
	for _, p := range pairs {
		b.expected[p.De] = p.Ru
		b.left = append(b.left, p.De)
		b.right = append(b.right, p.Ru)
	}
	rng.Shuffle(len(b.right), func(i, j int) {
		b.right[i], b.right[j] = b.right[j], b.right[i]
	})
	return b
}

// SelectLeft handles a click on a left-column term. Matched terms stay
// inert. Selecting while the other side is already selected fires a pairing
// attempt.
func (b *Board) SelectLeft(text string) {
	if _, ok := b.expected[text]; !ok || b.matchedLeft[text] {
		return
	}
	b.selLeft = text
	if b.selRight >= 0 {
		b.tryMatch()
	}
}

// SelectRight handles a click on a right-column term: the first unmatched
// occurrence of that text. Fully matched texts stay inert.
func (b *Board) SelectRight(text string) {
	i := b.unmatchedRight(text)
	if i < 0 {
		return
	}
	b.selRight = i
	if b.selLeft != "" {
		b.tryMatch()
	}
}

// tryMatch resolves a pairing attempt. A correct pair is marked matched on
// both sides; either way the selection clears, with no penalty for a miss.
func (b *Board) tryMatch() {
	if b.expected[b.selLeft] == b.right[b.selRight] {
		b.matchedLeft[b.selLeft] = true
		b.matchedRight[b.selRight] = true
	}
	b.selLeft = ""
	b.selRight = -1
}

// AllMatched reports whether every left term has been paired.
func (b *Board) AllMatched() bool {
	for _, l := range b.left {
		if !b.matchedLeft[l] {
			return false
		}
	}
	return true
}

// unmatchedRight returns the position of the first unmatched right item
// with the given text, or -1.
func (b *Board) unmatchedRight(text string) int {
	for i, r := range b.right {
		if r == text && !b.matchedRight[i] {
			return i
		}
	}
	return -1
}

func (b *Board) view() *MatchView {
	mv := &MatchView{
		Left:  make([]MatchItem, 0, len(b.left)),
		Right: make([]MatchItem, 0, len(b.right)),
	}
	for _, l := range b.left {
		mv.Left = append(mv.Left, MatchItem{Text: l, Matched: b.matchedLeft[l], Selected: b.selLeft == l})
	}
	for i, r := range b.right {
		mv.Right = append(mv.Right, MatchItem{Text: r, Matched: b.matchedRight[i], Selected: b.selRight == i})
	}
	return mv
}
