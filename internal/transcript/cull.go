package transcript

import "glyph-cli/internal/tui/render"

const (
	// cullingMargin is how many messages to back up before the first
	// visible one, absorbing slack in wrapped-height estimation.
	cullingMargin = 2
	// renderSlack is the extra output rows produced past the viewport so
	// small estimation errors never leave the bottom blank.
	renderSlack = 100
)

// renderMessage appends a message's lines to out. Mirrors
// computeMessageHeight; the two must stay in lockstep.
func (t *Transcript) renderMessage(m *Message, sp spinnerState, width int, out *[]render.Line) {
	*out = append(*out, t.renderer.RoleLabel(m.Role))

	if m.Role == RoleAssistant && len(m.Blocks) == 0 && sp.active && sp.last {
		*out = append(*out, t.renderer.ThinkingIndicator(t.spinnerFrame), render.BlankLine())
		return
	}

	anyRendered := false
	var prevKind BlockKind
	for _, b := range m.Blocks {
		if anyRendered && blockGap(prevKind, b.Kind) > 0 {
			*out = append(*out, render.BlankLine())
		}
		if lines, ok := b.cache().LinesAt(width); ok {
			*out = append(*out, lines...)
		} else {
			t.renderBlock(b, m.Role, width, out)
		}
		prevKind = b.Kind
		anyRendered = true
	}

	if sp.midTurn {
		*out = append(*out, render.BlankLine(), t.renderer.ThinkingIndicator(t.spinnerFrame))
	}

	*out = append(*out, render.BlankLine())
}

// renderAllMessages renders the welcome preamble and every message.
// Used when the whole transcript fits in the viewport.
func (t *Transcript) renderAllMessages(width int, out *[]render.Line) {
	*out = append(*out, t.welcome...)
	for i, m := range t.msgs {
		t.renderMessage(m, t.spinnerFor(i), width, out)
	}
}

// renderCulled renders only the message range covering the viewport:
// binary-search the first visible message, back up by the safety margin,
// then render forward until enough rows exist to cover the viewport plus
// slack. Returns the residual local scroll to apply to the emitted
// lines, since rendering starts mid-transcript rather than at the top.
func (t *Transcript) renderCulled(width, welcomeHeight, scroll, viewportHeight int, out *[]render.Line) int {
	firstVisible := 0
	if scroll >= welcomeHeight {
		firstVisible = t.prefix.FirstVisibleAt(scroll - welcomeHeight)
	}

	renderStart := firstVisible - cullingMargin
	if renderStart < 0 {
		renderStart = 0
	}

	heightBeforeStart := welcomeHeight + t.prefix.CumulativeBefore(renderStart)

	// The preamble is only emitted when rendering from the very top; in
	// that case line accounting switches to an absolute basis.
	if renderStart == 0 {
		*out = append(*out, t.welcome...)
		heightBeforeStart = 0
	}

	linesNeeded := (scroll - heightBeforeStart) + viewportHeight + renderSlack
	for i := renderStart; i < len(t.msgs); i++ {
		t.renderMessage(t.msgs[i], t.spinnerFor(i), width, out)
		if len(*out) > linesNeeded {
			break
		}
	}

	local := scroll - heightBeforeStart
	if local < 0 {
		local = 0
	}
	return local
}
