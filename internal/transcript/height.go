package transcript

import "glyph-cli/internal/tui/render"

// spinnerState describes the thinking indicator for one message during a
// height or render pass.
type spinnerState struct {
	active  bool // a turn is streaming or running tools
	last    bool // this is the newest message
	midTurn bool // assistant has emitted content but the turn is still open
}

func (t *Transcript) spinnerFor(i int) spinnerState {
	m := t.msgs[i]
	last := i == len(t.msgs)-1
	return spinnerState{
		active:  t.status != StatusIdle,
		last:    last,
		midTurn: last && t.status == StatusThinking && m.Role == RoleAssistant && len(m.Blocks) > 0,
	}
}

// updateVisualHeights ensures every message has a valid cached height at
// width. It walks newest to oldest and stops at the first message whose
// cache is already valid: completed messages are immutable, so everything
// older is valid too. The newest message is always recomputed while a
// turn streams, and the walk will not stop before passing the earliest
// index marked dirty this frame (terminal output can land on a message
// that is no longer the newest).
func (t *Transcript) updateVisualHeights(width int) {
	n := len(t.msgs)
	streaming := t.status != StatusIdle
	for i := n - 1; i >= 0; i-- {
		m := t.msgs[i]
		last := i == n-1
		if m.cachedWidth == width && m.cachedHeight > 0 &&
			!(last && streaming) &&
			(t.dirtyFrom < 0 || i < t.dirtyFrom) {
			break
		}
		m.cachedHeight = t.computeMessageHeight(m, t.spinnerFor(i), width)
		m.cachedWidth = width
	}
	t.dirtyFrom = -1
}

// computeMessageHeight sums a message's visual height at width: a 1-line
// role label, per-block cached-or-rendered heights, blank separators at
// text<->tool transitions, and a trailing blank. Mirrors renderMessage;
// the two must stay in lockstep.
func (t *Transcript) computeMessageHeight(m *Message, sp spinnerState, width int) int {
	total := 1 // role label

	// Newest assistant message with no content yet while thinking:
	// label + indicator + blank, no trailing separator.
	if m.Role == RoleAssistant && len(m.Blocks) == 0 && sp.active && sp.last {
		return total + 2
	}

	anyRendered := false
	var prevKind BlockKind
	for _, b := range m.Blocks {
		if anyRendered {
			total += blockGap(prevKind, b.Kind)
		}
		total += t.blockHeight(b, m.Role, width)
		prevKind = b.Kind
		anyRendered = true
	}

	// Mid-turn indicator: blank + indicator.
	if sp.midTurn {
		total += 2
	}

	// Trailing blank separates messages.
	total++

	return total
}

// blockHeight reads the block's cached height, rendering into a scratch
// buffer on a miss to populate the cache.
func (t *Transcript) blockHeight(b *Block, role Role, width int) int {
	c := b.cache()
	if h, ok := c.HeightAt(width); ok {
		return h
	}
	var scratch []render.Line
	t.renderBlock(b, role, width, &scratch)
	if h, ok := c.HeightAt(width); ok {
		return h
	}
	// Renderer chose not to cache (volatile panel); trust the scratch.
	return len(scratch)
}

func (t *Transcript) renderBlock(b *Block, role Role, width int, out *[]render.Line) {
	switch b.Kind {
	case BlockToolCall:
		t.renderer.RenderToolCall(b.Tool, width, t.spinnerFrame, out)
	default:
		t.renderer.RenderText(b.Text, role, width, out)
	}
}
