package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellSetNotifiesOnlyOnChange(t *testing.T) {
	c := NewCell(0)
	var seen []int
	c.Subscribe(func(v int) { seen = append(seen, v) })

	require.True(t, c.Set(1))
	require.False(t, c.Set(1), "same value must not emit")
	require.True(t, c.Set(2))

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, c.Get())
}

func TestCellUnsubscribe(t *testing.T) {
	c := NewCell("en")
	calls := 0
	unsubscribe := c.Subscribe(func(string) { calls++ })

	c.Set("es")
	unsubscribe()
	c.Set("en")

	assert.Equal(t, 1, calls)
}

func TestCellSubscriberMayReadCell(t *testing.T) {
	c := NewCell(0)
	var got int
	c.Subscribe(func(int) { got = c.Get() })

	c.Set(7)

	assert.Equal(t, 7, got)
}
