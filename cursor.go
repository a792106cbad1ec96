package rendercore

// Cursor is the selection state of the mutation protocol: either no shape
// or exactly one shape ID. Shape-mutating calls apply to the selected shape
// and are silently ignored when nothing is selected.
type Cursor struct {
	id       ID
	selected bool
}

// Select moves the cursor to id.
func (c *Cursor) Select(id ID) {
	c.id = id
	c.selected = true
}

// Clear moves the cursor back to the no-selection state.
func (c *Cursor) Clear() {
	c.id = ID{}
	c.selected = false
}

// Current returns the selected ID, if any.
func (c *Cursor) Current() (ID, bool) {
	return c.id, c.selected
}
