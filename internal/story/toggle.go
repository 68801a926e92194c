package story

import "finitefield.org/aire-web/internal/state"

// DetailToggle tracks which pollution source, if any, is expanded.
type DetailToggle struct {
	expanded *state.Cell[Category]
}

// NewDetailToggle starts with nothing expanded.
func NewDetailToggle() *DetailToggle {
	return &DetailToggle{expanded: state.NewCell(CategoryNone)}
}

// Toggle expands c, or collapses it when c is already expanded.
// It returns the new expanded value.
func (d *DetailToggle) Toggle(c Category) Category {
	next := c
	if d.expanded.Get() == c {
		next = CategoryNone
	}
	d.expanded.Set(next)
	return next
}

// Expanded returns the expanded category and whether one is set.
func (d *DetailToggle) Expanded() (Category, bool) {
	c := d.expanded.Get()
	return c, c != CategoryNone
}

// Dimmed reports whether c should render at reduced opacity.
func (d *DetailToggle) Dimmed(c Category) bool {
	cur := d.expanded.Get()
	return cur != CategoryNone && cur != c
}

// Reset collapses any expanded detail.
func (d *DetailToggle) Reset() { d.expanded.Set(CategoryNone) }

// Subscribe registers fn for expand/collapse transitions.
func (d *DetailToggle) Subscribe(fn func(Category)) (unsubscribe func()) {
	return d.expanded.Subscribe(fn)
}
