package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"glyph-cli/internal/transcript"
	"glyph-cli/internal/tui/render"
)

// toolOutputTail is how many trailing output rows a tool panel shows;
// earlier rows scroll out of the panel but stay in the session buffer.
const toolOutputTail = 16

const toolIndent = "  "

// messageRenderer turns transcript blocks into styled lines. It is the
// single place that knows what a message looks like; heights always come
// from what it emits.
type messageRenderer struct{}

var _ transcript.LineRenderer = messageRenderer{}

func (messageRenderer) RoleLabel(role transcript.Role) render.Line {
	switch role {
	case transcript.RoleUser:
		return render.Line{Spans: []render.Span{{Text: "❯ you", Style: userLabelStyle}}}
	case transcript.RoleAssistant:
		return render.Line{Spans: []render.Span{{Text: "✦ glyph", Style: assistantLabelStyle}}}
	default:
		return render.Line{Spans: []render.Span{{Text: "• system", Style: systemLabelStyle}}}
	}
}

func (messageRenderer) RenderText(b *transcript.TextBlock, role transcript.Role, width int, out *[]render.Line) {
	style := textStyleFor(role)
	lines := render.ShapeText(b.Content, &b.Shape, width, style)
	b.Cache.StoreWithHeight(width, lines)
	*out = append(*out, lines...)
}

func textStyleFor(role transcript.Role) lipgloss.Style {
	switch role {
	case transcript.RoleUser:
		return userTextStyle
	case transcript.RoleSystem:
		return systemTextStyle
	default:
		return assistantTextStyle
	}
}

// RenderToolCall draws the tool panel: a status header plus the tail of
// the command's output. The panel is cached only once the call has
// terminated; while it runs the header carries a live spinner and must
// be redrawn every frame.
func (messageRenderer) RenderToolCall(tc *transcript.ToolCall, width, spinnerFrame int, out *[]render.Line) {
	start := len(*out)

	glyph, style := toolStatusGlyph(tc.Status, spinnerFrame)
	*out = append(*out, render.Line{Spans: []render.Span{
		{Text: glyph + " ", Style: style},
		{Text: tc.Title, Style: toolTitleStyle},
	}})

	bodyWidth := width - len(toolIndent)
	if bodyWidth < 8 {
		bodyWidth = 8
	}
	for _, raw := range tailLines(tc.Output, toolOutputTail) {
		for _, wrapped := range render.WrapPreserveSpaces(raw, bodyWidth) {
			*out = append(*out, render.Line{Spans: []render.Span{
				{Text: toolIndent},
				{Text: wrapped, Style: toolOutputStyle},
			}})
		}
	}

	if tc.Status.Terminated() {
		tc.Cache.StoreWithHeight(width, (*out)[start:])
	}
}

func (messageRenderer) ThinkingIndicator(spinnerFrame int) render.Line {
	return render.Line{Spans: []render.Span{
		{Text: spinnerGlyph(spinnerFrame) + " thinking…", Style: thinkingStyle},
	}}
}

func toolStatusGlyph(status transcript.ToolCallStatus, spinnerFrame int) (string, lipgloss.Style) {
	switch status {
	case transcript.ToolCompleted:
		return "✓", toolOkStyle
	case transcript.ToolFailed:
		return "✗", toolFailStyle
	case transcript.ToolInProgress:
		return spinnerGlyph(spinnerFrame), thinkingStyle
	default:
		return "○", toolOutputStyle
	}
}

// tailLines returns the last n lines of text, dropping a trailing
// newline so an in-flight line still shows.
func tailLines(text string, n int) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
