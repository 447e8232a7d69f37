package term

import (
	"bytes"
	"strings"
	"testing"

	"glyph-cli/internal/transcript"
	"glyph-cli/internal/tui/render"
)

type plainRenderer struct{}

func (plainRenderer) RoleLabel(transcript.Role) render.Line { return render.Line{} }

func (plainRenderer) RenderText(b *transcript.TextBlock, _ transcript.Role, width int, out *[]render.Line) {
	for _, l := range render.WrapText(b.Content, width) {
		*out = append(*out, render.Line{Spans: []render.Span{{Text: l}}})
	}
}

func (plainRenderer) RenderToolCall(tc *transcript.ToolCall, _ int, _ int, out *[]render.Line) {
	*out = append(*out, render.Line{Spans: []render.Span{{Text: "$ " + tc.Title}}})
}

func (plainRenderer) ThinkingIndicator(int) render.Line { return render.Line{} }

// A session that outlives the buffer cap keeps feeding its tool panel:
// the reported size is a stream position, so growth after a front trim
// is still a visible delta.
func TestSessionMirrorsPastBufferCap(t *testing.T) {
	tr := transcript.New(plainRenderer{})
	tr.PushUser("run it")
	tr.BeginAssistantTurn()
	msg, block := tr.StartToolCall("t1", "yes")

	s := newBufferSession()
	tr.AttachTerminal("t1", s, msg, block)

	s.appendLocked(bytes.Repeat([]byte{'a'}, maxBufferBytes))
	tr.UpdateTerminalOutputs()

	s.appendLocked([]byte("TAIL"))
	if !tr.UpdateTerminalOutputs() {
		t.Fatalf("growth past the cap reported no change")
	}
	tc := tr.Messages()[msg].ToolCallAt(block)
	if tc == nil || !strings.HasSuffix(tc.Output, "TAIL") {
		t.Fatalf("output tail lost past the cap")
	}
}
