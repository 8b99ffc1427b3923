package search

// Cursor is the navigation position among occurrences. It keeps the last
// requested index and clamps it against the current occurrence count on every
// read, so a shrinking result set never leaves it out of range.
type Cursor struct {
	desired int
	set     bool
}

// Reset makes the cursor undefined.
func (c *Cursor) Reset() {
	c.desired = 0
	c.set = false
}

// Index returns the effective index for count occurrences.
func (c Cursor) Index(count int) (int, bool) {
	if !c.set || count <= 0 {
		return 0, false
	}
	if c.desired > count-1 {
		return count - 1, true
	}
	return c.desired, true
}

// Next advances with wraparound. From undefined it lands on the first
// occurrence.
func (c *Cursor) Next(count int) {
	if count <= 0 {
		return
	}
	cur, ok := c.Index(count)
	if !ok {
		c.desired, c.set = 0, true
		return
	}
	c.desired, c.set = (cur+1)%count, true
}

// Prev steps back with wraparound. From undefined it lands on the last
// occurrence.
func (c *Cursor) Prev(count int) {
	if count <= 0 {
		return
	}
	cur, ok := c.Index(count)
	if !ok || cur-1 < 0 {
		c.desired, c.set = count-1, true
		return
	}
	c.desired, c.set = cur-1, true
}

// Position returns the 1-based position for display, e.g. 3 of 17.
func (c Cursor) Position(count int) (pos, total int, ok bool) {
	idx, ok := c.Index(count)
	if !ok {
		return 0, count, false
	}
	return min(idx+1, count), count, true
}
