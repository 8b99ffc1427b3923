package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorZeroCountIsNoop(t *testing.T) {
	var c Cursor
	c.Next(0)
	c.Prev(0)

	_, ok := c.Index(0)
	assert.False(t, ok)
	_, ok = c.Index(5)
	assert.False(t, ok, "guarded no-op must leave the cursor undefined")
}

func TestCursorNextFromUndefined(t *testing.T) {
	var c Cursor
	c.Next(2)
	idx, ok := c.Index(2)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	c.Next(2)
	idx, _ = c.Index(2)
	assert.Equal(t, 1, idx)

	c.Next(2)
	idx, _ = c.Index(2)
	assert.Equal(t, 0, idx, "wraps to the first occurrence")
}

func TestCursorPrevFromUndefined(t *testing.T) {
	var c Cursor
	c.Prev(3)
	idx, ok := c.Index(3)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	c.Prev(3)
	c.Prev(3)
	c.Prev(3)
	idx, _ = c.Index(3)
	assert.Equal(t, 2, idx)
}

func TestCursorSingleOccurrence(t *testing.T) {
	var c Cursor
	for i := 0; i < 3; i++ {
		c.Next(1)
		idx, ok := c.Index(1)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	}
}

func TestCursorCyclic(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for start := 0; start < n; start++ {
			c := Cursor{desired: start, set: true}

			for i := 0; i < n; i++ {
				c.Next(n)
			}
			idx, _ := c.Index(n)
			assert.Equal(t, start, idx, "next n=%d start=%d", n, start)

			for i := 0; i < n; i++ {
				c.Prev(n)
			}
			idx, _ = c.Index(n)
			assert.Equal(t, start, idx, "prev n=%d start=%d", n, start)
		}
	}
}

func TestCursorClampsWhenCountShrinks(t *testing.T) {
	c := Cursor{desired: 9, set: true}

	idx, ok := c.Index(4)
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	c.Next(4)
	idx, _ = c.Index(4)
	assert.Equal(t, 0, idx, "advancing from the clamped position wraps")
}

func TestCursorReset(t *testing.T) {
	var c Cursor
	c.Next(3)
	c.Reset()
	_, ok := c.Index(3)
	assert.False(t, ok)
}

func TestCursorPosition(t *testing.T) {
	var c Cursor
	_, total, ok := c.Position(17)
	assert.False(t, ok)
	assert.Equal(t, 17, total)

	c.Next(17)
	c.Next(17)
	c.Next(17)
	pos, total, ok := c.Position(17)
	require.True(t, ok)
	assert.Equal(t, 3, pos)
	assert.Equal(t, 17, total)
}
