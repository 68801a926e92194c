package story

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReusesSessions(t *testing.T) {
	reg := NewRegistry(RegistryOptions{Bundle: testBundle(t), DefaultLocale: "en", Sections: 9})
	a := reg.Get("a")
	assert.Same(t, a, reg.Get("a"))
	assert.NotSame(t, a, reg.Get("b"))
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "en", a.Locale.Locale())
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var live []int
	reg := NewRegistry(RegistryOptions{
		Bundle:   testBundle(t),
		Sections: 9,
		TTL:      10 * time.Minute,
		Clock:    clock,
		Hooks:    Hooks{OnLive: func(n int) { live = append(live, n) }},
	})
	reg.Get("old")
	clock.Advance(6 * time.Minute)
	reg.Get("new")
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []int{1, 2, 1}, live)
}

func TestRegistryRunSweepsOnTicker(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(RegistryOptions{Bundle: testBundle(t), Sections: 9, TTL: time.Minute, Clock: clock})
	reg.Get("x")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.Run(ctx)
		close(done)
	}()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestSessionHooksAndRemount(t *testing.T) {
	var sections []int
	var locales []string
	var toggles []Category
	reg := NewRegistry(RegistryOptions{
		Bundle:        testBundle(t),
		DefaultLocale: "en",
		Sections:      3,
		Offset:        DefaultOffset,
		Hooks: Hooks{
			OnSection: func(i int) { sections = append(sections, i) },
			OnLocale:  func(l string) { locales = append(locales, l) },
			OnToggle:  func(c Category) { toggles = append(toggles, c) },
		},
	})
	s := reg.Get("v")
	s.Tracker.Observe(Observation{ScrollY: 1000, ViewportHeight: 400, Boxes: evenLayout(3, 600)})
	s.Details.Toggle(Residential)
	require.NoError(t, s.Locale.SetLocale("es"))

	s.Remount("xx")
	assert.Equal(t, 0, s.Tracker.Active())
	assert.Equal(t, CategoryNone, s.Expanded())
	assert.Equal(t, "en", s.Locale.Locale())

	assert.Equal(t, []int{2, 0}, sections)
	assert.Equal(t, []string{"es", "en"}, locales)
	assert.Equal(t, []Category{Residential, CategoryNone}, toggles)
}

func TestRegistryKeepsZeroOffset(t *testing.T) {
	reg := NewRegistry(RegistryOptions{Bundle: testBundle(t), DefaultLocale: "en", Sections: 3, Offset: 0})
	s := reg.Get("top")
	assert.Equal(t, 0.0, s.Tracker.Offset())

	// trigger line sits at the viewport top, so y=900 is still inside the first box
	idx, changed := s.Tracker.Observe(Observation{ScrollY: 900, ViewportHeight: 400, Boxes: evenLayout(3, 1000)})
	assert.Equal(t, 0, idx)
	assert.False(t, changed)
}
