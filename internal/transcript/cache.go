package transcript

import "glyph-cli/internal/tui/render"

// BlockCache memoizes the rendered lines of a single block at a single
// width. Width changes only on terminal resize and content changes only
// while the tail of the transcript streams, so one slot keyed on width is
// enough; any content mutation clears it rather than patching entries.
type BlockCache struct {
	width  int
	height int
	lines  []render.Line
	valid  bool
}

// HeightAt returns the cached line count for width, if a valid entry was
// stored at exactly that width.
func (c *BlockCache) HeightAt(width int) (int, bool) {
	if !c.valid || c.width != width {
		return 0, false
	}
	return c.height, true
}

// LinesAt returns the cached materialized lines for width.
func (c *BlockCache) LinesAt(width int) ([]render.Line, bool) {
	if !c.valid || c.width != width {
		return nil, false
	}
	return c.lines, true
}

// StoreWithHeight records a fresh render at width. The lines are copied
// so later mutation of the source slice cannot corrupt the cache.
func (c *BlockCache) StoreWithHeight(width int, lines []render.Line) {
	c.width = width
	c.height = len(lines)
	c.lines = render.CopyLines(lines)
	c.valid = true
}

// Invalidate drops the cached entry. Called on every content mutation.
func (c *BlockCache) Invalidate() {
	c.valid = false
	c.lines = nil
}
