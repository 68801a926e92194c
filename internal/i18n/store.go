package i18n

import (
	"fmt"
	"strings"

	"finitefield.org/aire-web/internal/state"
)

// Store resolves key paths against the currently active locale.
type Store struct {
	bundle *Bundle
	active *state.Cell[string]
}

// NewStore returns a store starting on initial, or on the bundle fallback
// when initial is not supported.
func NewStore(b *Bundle, initial string) *Store {
	initial = strings.ToLower(strings.TrimSpace(initial))
	if !b.IsSupported(initial) {
		initial = b.Fallback()
	}
	return &Store{bundle: b, active: state.NewCell(initial)}
}

// Translate resolves key against the active locale.
func (s *Store) Translate(key string) string {
	return s.bundle.T(s.active.Get(), key)
}

// Has reports whether key resolves without the missing placeholder.
func (s *Store) Has(key string) bool {
	if _, ok := s.bundle.Lookup(s.active.Get(), key); ok {
		return true
	}
	_, ok := s.bundle.Lookup(s.bundle.Fallback(), key)
	return ok
}

// Locale returns the active locale code.
func (s *Store) Locale() string { return s.active.Get() }

// SetLocale switches the active locale. Subscribers are notified only when
// the locale actually changes. Unsupported codes leave the state untouched.
func (s *Store) SetLocale(code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if !s.bundle.IsSupported(code) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, code)
	}
	s.active.Set(code)
	return nil
}

// Subscribe registers fn for locale changes.
func (s *Store) Subscribe(fn func(locale string)) (unsubscribe func()) {
	return s.active.Subscribe(fn)
}

// Bundle exposes the underlying dictionaries.
func (s *Store) Bundle() *Bundle { return s.bundle }
