package story

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"finitefield.org/aire-web/internal/i18n"
	"finitefield.org/aire-web/internal/state"
)

// Session is one visitor's story state: the active section, the active
// locale and the expanded pollution source.
type Session struct {
	ID      string
	Active  *state.Cell[int]
	Locale  *i18n.Store
	Details *DetailToggle
	Tracker *Tracker

	// mu serializes overlapping requests from the same visitor.
	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes a read-modify-render cycle on the session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Remount resets the session as a fresh page load: index 0, nothing
// expanded, locale set to lang or the bundle fallback.
func (s *Session) Remount(lang string) {
	s.Tracker.Mount()
	s.Details.Reset()
	if err := s.Locale.SetLocale(lang); err != nil {
		_ = s.Locale.SetLocale(s.Locale.Bundle().Fallback())
	}
}

// Expanded returns the expanded category, or CategoryNone.
func (s *Session) Expanded() Category {
	c, _ := s.Details.Expanded()
	return c
}

// Hooks are attached to every newly created session. Any may be nil.
type Hooks struct {
	OnSection func(index int)
	OnLocale  func(locale string)
	OnToggle  func(c Category)
	OnLive    func(n int)
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Bundle        *i18n.Bundle
	DefaultLocale string
	Sections      int
	Offset        float64
	TTL           time.Duration
	Clock         clockwork.Clock
	Hooks         Hooks
}

// Registry holds sessions by id and evicts idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     RegistryOptions
	clock    clockwork.Clock
}

// NewRegistry returns an empty registry. A zero TTL defaults to 30 minutes.
// Offset is used as given, so callers wanting the middle of the viewport
// pass DefaultOffset.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &Registry{sessions: map[string]*Session{}, opts: opts, clock: opts.Clock}
}

// Get returns the session for id, creating it on first use. Every call
// refreshes the idle timer.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok {
		s = r.newSession(id)
		r.sessions[id] = s
	}
	s.lastSeen = r.clock.Now()
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok && r.opts.Hooks.OnLive != nil {
		r.opts.Hooks.OnLive(n)
	}
	return s
}

func (r *Registry) newSession(id string) *Session {
	active := state.NewCell(0)
	s := &Session{
		ID:      id,
		Active:  active,
		Locale:  i18n.NewStore(r.opts.Bundle, r.opts.DefaultLocale),
		Details: NewDetailToggle(),
		Tracker: NewTracker(active, r.opts.Sections, r.opts.Offset),
	}
	h := r.opts.Hooks
	if h.OnSection != nil {
		active.Subscribe(h.OnSection)
	}
	if h.OnLocale != nil {
		s.Locale.Subscribe(h.OnLocale)
	}
	if h.OnToggle != nil {
		s.Details.Subscribe(h.OnToggle)
	}
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.opts.TTL)
	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()
	if removed > 0 && r.opts.Hooks.OnLive != nil {
		r.opts.Hooks.OnLive(n)
	}
	return removed
}

// Run sweeps every half TTL until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	t := r.clock.NewTicker(r.opts.TTL / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			r.Sweep()
		}
	}
}
