package transcript

import "glyph-cli/internal/tui/render"

// LineRenderer shapes block content into styled lines. Implementations
// must be pure with respect to (content, width): the same content at the
// same width always yields the same number of lines, which is what makes
// the per-block caches sound.
//
// RenderText and RenderToolCall append to out and record the result in
// the block's cache via StoreWithHeight; a renderer may skip the store
// for volatile panels (for example an in-progress tool call whose
// spinner glyph changes every frame) at the cost of re-rendering them.
type LineRenderer interface {
	RoleLabel(role Role) render.Line
	RenderText(b *TextBlock, role Role, width int, out *[]render.Line)
	RenderToolCall(tc *ToolCall, width int, spinnerFrame int, out *[]render.Line)
	ThinkingIndicator(spinnerFrame int) render.Line
}
