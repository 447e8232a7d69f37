package transcript

import (
	"strings"
	"testing"

	"glyph-cli/internal/tui/render"
)

// countingRenderer is a minimal LineRenderer that tracks how many times
// each block kind is actually rendered, so tests can assert on cache
// behavior.
type countingRenderer struct {
	textRenders int
	toolRenders int
}

func plainLine(text string) render.Line {
	return render.Line{Spans: []render.Span{{Text: text}}}
}

func (r *countingRenderer) RoleLabel(role Role) render.Line {
	return plainLine("[" + role.String() + "]")
}

func (r *countingRenderer) RenderText(b *TextBlock, _ Role, width int, out *[]render.Line) {
	r.textRenders++
	var lines []render.Line
	for _, s := range strings.Split(b.Content, "\n") {
		lines = append(lines, plainLine(s))
	}
	b.Cache.StoreWithHeight(width, lines)
	*out = append(*out, lines...)
}

func (r *countingRenderer) RenderToolCall(tc *ToolCall, width, _ int, out *[]render.Line) {
	r.toolRenders++
	start := len(*out)
	*out = append(*out, plainLine("$ "+tc.Title))
	if tc.Output != "" {
		for _, s := range strings.Split(strings.TrimSuffix(tc.Output, "\n"), "\n") {
			*out = append(*out, plainLine(s))
		}
	}
	if tc.Status.Terminated() {
		tc.Cache.StoreWithHeight(width, (*out)[start:])
	}
}

func (r *countingRenderer) ThinkingIndicator(_ int) render.Line {
	return plainLine("* thinking")
}

func newTestTranscript() (*Transcript, *countingRenderer) {
	r := &countingRenderer{}
	return New(r), r
}

func TestHeightScanShortCircuits(t *testing.T) {
	tr, r := newTestTranscript()
	for i := 0; i < 5; i++ {
		tr.PushUser("hello")
	}

	tr.Render(80, 4)
	if r.textRenders != 5 {
		t.Fatalf("first pass rendered %d text blocks, want 5", r.textRenders)
	}

	// A second pass with no mutation must not re-render anything.
	tr.Render(80, 4)
	if r.textRenders != 5 {
		t.Fatalf("idle pass re-rendered: %d renders", r.textRenders)
	}

	// Appending a message only renders the new one.
	tr.PushUser("world")
	tr.Render(80, 4)
	if r.textRenders != 6 {
		t.Fatalf("append pass rendered %d, want 6", r.textRenders)
	}
}

func TestWidthChangeRecomputesAll(t *testing.T) {
	tr, r := newTestTranscript()
	for i := 0; i < 3; i++ {
		tr.PushUser("hello")
	}
	tr.Render(80, 4)
	tr.Render(40, 4)
	if r.textRenders != 6 {
		t.Fatalf("resize rendered %d blocks total, want 6", r.textRenders)
	}
}

func TestDirtyMarkReachesPastValidCaches(t *testing.T) {
	tr, r := newTestTranscript()
	for i := 0; i < 4; i++ {
		tr.PushUser("hello")
	}
	tr.Render(80, 4)

	// Mutate an older message behind three valid caches.
	tr.msgs[1].Blocks[0].Text.SetContent("line1\nline2")
	tr.msgs[1].InvalidateLayout()
	tr.MarkMessageLayoutDirty(1)

	tr.Render(80, 4)
	if r.textRenders != 5 {
		t.Fatalf("dirty pass rendered %d text blocks, want 5", r.textRenders)
	}
	if h, _ := tr.msgs[1].CachedHeight(); h != 4 {
		t.Fatalf("mutated message height = %d, want 4 (label + 2 lines + blank)", h)
	}
}

func TestThinkingPlaceholderHeight(t *testing.T) {
	tr, _ := newTestTranscript()
	tr.PushUser("hi")
	tr.BeginAssistantTurn()

	tr.updateVisualHeights(80)
	if h, _ := tr.msgs[1].CachedHeight(); h != 3 {
		t.Fatalf("empty thinking message height = %d, want 3", h)
	}
}

func TestMidTurnIndicatorHeight(t *testing.T) {
	tr, _ := newTestTranscript()
	tr.PushUser("hi")
	tr.BeginAssistantTurn()
	tr.AppendAssistantChunk("working on it")

	tr.updateVisualHeights(80)
	// label + text + blank + indicator + trailing blank
	if h, _ := tr.msgs[1].CachedHeight(); h != 5 {
		t.Fatalf("mid-turn message height = %d, want 5", h)
	}

	tr.EndTurn()
	tr.updateVisualHeights(80)
	if h, _ := tr.msgs[1].CachedHeight(); h != 3 {
		t.Fatalf("closed turn height = %d, want 3", h)
	}
}

func TestBlockGapAtKindTransitions(t *testing.T) {
	tr, _ := newTestTranscript()
	tr.PushUser("hi")
	tr.BeginAssistantTurn()
	tr.AppendAssistantChunk("running a command")
	msgIdx, blockIdx := tr.StartToolCall("t1", "ls")
	tr.FinishToolCall(msgIdx, blockIdx, ToolCompleted)
	tr.EndTurn()

	tr.updateVisualHeights(80)
	// label + text + gap + tool header + trailing blank
	if h, _ := tr.msgs[1].CachedHeight(); h != 5 {
		t.Fatalf("text+tool message height = %d, want 5", h)
	}
}

func TestHeightMatchesRenderedLines(t *testing.T) {
	tr, _ := newTestTranscript()

	tool := &ToolCall{ID: "x", Title: "make test", Status: ToolCompleted, Output: "ok\ndone"}
	cases := []struct {
		name string
		msg  *Message
		sp   spinnerState
	}{
		{"plain user", TextMessage(RoleUser, "hello"), spinnerState{}},
		{"multiline", TextMessage(RoleAssistant, "a\nb\nc"), spinnerState{}},
		{"empty thinking", NewMessage(RoleAssistant), spinnerState{active: true, last: true}},
		{"mid turn", TextMessage(RoleAssistant, "x"), spinnerState{active: true, last: true, midTurn: true}},
		{"tool only", func() *Message {
			m := NewMessage(RoleAssistant)
			m.AppendToolCall(tool)
			return m
		}(), spinnerState{}},
		{"text then tool", func() *Message {
			m := TextMessage(RoleAssistant, "running")
			m.AppendToolCall(&ToolCall{ID: "y", Title: "go vet", Status: ToolFailed, Output: "boom"})
			return m
		}(), spinnerState{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			height := tr.computeMessageHeight(tc.msg, tc.sp, 80)
			var lines []render.Line
			tr.renderMessage(tc.msg, tc.sp, 80, &lines)
			if height != len(lines) {
				t.Fatalf("computed height %d but rendered %d lines", height, len(lines))
			}
		})
	}
}

func TestRenderAllWhenContentFits(t *testing.T) {
	tr, _ := newTestTranscript()
	tr.PushUser("hi")

	lines, local := tr.Render(80, 40)
	if local != 0 {
		t.Fatalf("local scroll = %d, want 0", local)
	}
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3", len(lines))
	}
	if tr.ScrollOffset() != 0 {
		t.Fatalf("scroll offset = %d, want 0 for fitting content", tr.ScrollOffset())
	}
}

func TestWelcomeOnlyFromTop(t *testing.T) {
	tr, _ := newTestTranscript()
	tr.SetWelcomeLines([]render.Line{plainLine("w1"), plainLine("w2")})
	for i := 0; i < 100; i++ {
		tr.PushUser("hello")
	}

	// Drive the scroll to the bottom so rendering starts mid-transcript.
	var lines []render.Line
	var local int
	for i := 0; i < 60; i++ {
		lines, local = tr.Render(80, 10)
	}
	if local == 0 {
		t.Fatalf("expected nonzero local scroll at bottom")
	}
	if lines[0].Plain() == "w1" {
		t.Fatalf("welcome preamble emitted for mid-transcript window")
	}

	tr.ScrollToTop()
	for i := 0; i < 60; i++ {
		lines, local = tr.Render(80, 10)
	}
	if lines[0].Plain() != "w1" {
		t.Fatalf("welcome preamble missing at top, first line %q", lines[0].Plain())
	}
}

func TestCulledWindowMatchesFullRender(t *testing.T) {
	tr, _ := newTestTranscript()
	for i := 0; i < 200; i++ {
		tr.PushUser("hello")
	}

	const viewport = 10
	lines, local := tr.Render(80, viewport)

	var full []render.Line
	tr.renderAllMessages(80, &full)
	scroll := tr.ScrollOffset()

	if len(lines) < local+viewport {
		t.Fatalf("culled render produced %d lines, need at least %d", len(lines), local+viewport)
	}
	for i := 0; i < viewport; i++ {
		got := lines[local+i].Plain()
		want := full[scroll+i].Plain()
		if got != want {
			t.Fatalf("row %d: culled %q != full %q (scroll %d, local %d)", i, got, want, scroll, local)
		}
	}
}

func TestReplaceAllResetsDerivedState(t *testing.T) {
	tr, _ := newTestTranscript()
	for i := 0; i < 50; i++ {
		tr.PushUser("hello")
	}
	tr.Render(80, 10)

	tr.ReplaceAll([]*Message{TextMessage(RoleUser, "fresh")})
	lines, local := tr.Render(80, 40)
	if local != 0 {
		t.Fatalf("local scroll = %d after replace, want 0", local)
	}
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines after replace, want 3", len(lines))
	}
}
