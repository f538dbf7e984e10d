package builder

import (
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// Sequencer owns the build order and the current-category cursor.
//
// Advance is gated: it moves forward one step only when the current category
// has a selection and the cursor is not on the last category. JumpTo is not
// gated and never clears selections.
type Sequencer struct {
	seq    []catalog.Category
	cursor int
}

// NewSequencer returns a sequencer positioned on the first category.
func NewSequencer() *Sequencer {
	return &Sequencer{seq: catalog.Sequence()}
}

// Current returns the category under the cursor.
func (q *Sequencer) Current() catalog.Category { return q.seq[q.cursor] }

// Index returns the cursor position.
func (q *Sequencer) Index() int { return q.cursor }

// Len returns the number of categories in the sequence.
func (q *Sequencer) Len() int { return len(q.seq) }

// Last reports whether the cursor is on the final category.
func (q *Sequencer) Last() bool { return q.cursor == len(q.seq)-1 }

// Categories returns the build order.
func (q *Sequencer) Categories() []catalog.Category {
	return append([]catalog.Category(nil), q.seq...)
}

// CanAdvance reports whether Advance would succeed.
func (q *Sequencer) CanAdvance(sel *Selection) bool {
	return sel.Has(q.Current()) && !q.Last()
}

// Advance moves to the next category. It returns an INELIGIBLE_ADVANCE error
// and leaves the cursor alone when the current category is unselected or the
// cursor is already on the last category.
func (q *Sequencer) Advance(sel *Selection) error {
	cur := q.Current()
	if !sel.Has(cur) {
		return errors.IneligibleAdvance("choose a part for %s before moving on", cur.Title())
	}
	if q.Last() {
		return errors.IneligibleAdvance("%s is the last category", cur.Title())
	}
	q.cursor++
	return nil
}

// JumpTo moves the cursor directly to c. Categories outside the sequence are
// an INVALID_CATEGORY error and leave the cursor alone.
func (q *Sequencer) JumpTo(c catalog.Category) error {
	for i, s := range q.seq {
		if s == c {
			q.cursor = i
			return nil
		}
	}
	return errors.InvalidCategory(string(c))
}

// Complete reports whether every category in the sequence has a selection.
func (q *Sequencer) Complete(sel *Selection) bool {
	for _, c := range q.seq {
		if !sel.Has(c) {
			return false
		}
	}
	return true
}
