package story

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"finitefield.org/aire-web/internal/state"
)

// ErrInvalidLayout is returned when a layout payload cannot be decoded.
var ErrInvalidLayout = errors.New("story: invalid layout")

// DefaultOffset puts the trigger line at the middle of the viewport.
const DefaultOffset = 0.5

// Box is a section container's vertical extent in document coordinates.
type Box struct {
	Top    float64
	Height float64
}

// Observation is one sample of the page's scroll state.
type Observation struct {
	ScrollY        float64
	ViewportHeight float64
	Boxes          []Box
}

// Tracker maps scroll observations to the active section index. It is the
// only writer of the active cell.
type Tracker struct {
	mu       sync.Mutex
	active   *state.Cell[int]
	sections int
	offset   float64
}

// NewTracker builds a tracker for n sections. offset is the trigger line as
// a fraction of the viewport height and is clamped to [0, 1].
func NewTracker(active *state.Cell[int], n int, offset float64) *Tracker {
	if offset < 0 {
		offset = 0
	} else if offset > 1 {
		offset = 1
	}
	return &Tracker{active: active, sections: n, offset: offset}
}

// Offset returns the configured trigger fraction.
func (t *Tracker) Offset() float64 { return t.offset }

// Active returns the current index.
func (t *Tracker) Active() int { return t.active.Get() }

// Mount establishes index 0, as on a fresh page load.
func (t *Tracker) Mount() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active.Set(0)
}

// Observe computes the index for o and stores it. It reports the resulting
// index and whether it differs from the previous one. An unsettled layout
// holds the last known index.
func (t *Tracker) Observe(o Observation) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.locate(o)
	if !ok {
		return t.active.Get(), false
	}
	return idx, t.active.Set(idx)
}

func (t *Tracker) locate(o Observation) (int, bool) {
	if t.sections == 0 || len(o.Boxes) != t.sections || o.ViewportHeight <= 0 {
		return 0, false
	}
	if !finite(o.ScrollY) || !finite(o.ViewportHeight) {
		return 0, false
	}
	settled := false
	for _, b := range o.Boxes {
		if !finite(b.Top) || !finite(b.Height) {
			return 0, false
		}
		if b.Height > 0 {
			settled = true
			break
		}
	}
	if !settled {
		return 0, false
	}
	trigger := o.ScrollY + t.offset*o.ViewportHeight
	idx := 0
	for i, b := range o.Boxes {
		if b.Top <= trigger {
			idx = i
		}
	}
	return idx, true
}

// ParseLayout decodes "top:height,top:height,..." as produced by the page's
// layout shim. An empty string yields no boxes.
func ParseLayout(s string) ([]Box, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	boxes := make([]Box, 0, len(parts))
	for i, p := range parts {
		top, height, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return nil, fmt.Errorf("%w: entry %d %q", ErrInvalidLayout, i, p)
		}
		tv, err := strconv.ParseFloat(top, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d top: %v", ErrInvalidLayout, i, err)
		}
		if !finite(tv) {
			return nil, fmt.Errorf("%w: entry %d top %q", ErrInvalidLayout, i, top)
		}
		hv, err := strconv.ParseFloat(height, 64)
		if err != nil || !finite(hv) || hv < 0 {
			return nil, fmt.Errorf("%w: entry %d height %q", ErrInvalidLayout, i, height)
		}
		boxes = append(boxes, Box{Top: tv, Height: hv})
	}
	return boxes, nil
}

// ParseCoordinate parses a scroll offset or viewport size. NaN and
// infinities are rejected.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidLayout, s)
	}
	return v, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
