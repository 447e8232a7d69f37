package transcript

import (
	"strings"

	"github.com/sirupsen/logrus"

	"glyph-cli/internal/logger"
	"glyph-cli/internal/tui/render"
)

// Status is the coarse phase of the agent turn, driving the thinking
// indicator and the height-cache streaming exemption.
type Status int

const (
	StatusIdle Status = iota
	StatusThinking
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusThinking:
		return "thinking"
	case StatusRunning:
		return "running"
	default:
		return "idle"
	}
}

// Transcript is the scrollback model of the chat view: the message list,
// its derived layout state (per-message height caches and the prefix-sum
// index), the scroll controller, and the live terminal mirrors. All
// methods are called from the UI goroutine; subprocess readers only ever
// touch their own buffers behind OutputSource.
type Transcript struct {
	msgs   []*Message
	prefix PrefixSumIndex
	scroll ScrollController

	renderer LineRenderer
	status   Status

	// spinnerFrame advances once per UI frame; indicators derive their
	// glyph from it.
	spinnerFrame int

	// dirtyFrom is the earliest message index invalidated since the last
	// height pass, or -1. It keeps the newest-to-oldest scan sound when a
	// mutation lands behind still-valid caches.
	dirtyFrom int

	welcome []render.Line

	terminals        []terminalRef
	replaceFallbacks int

	log *logrus.Entry
}

func New(r LineRenderer) *Transcript {
	return &Transcript{
		renderer:  r,
		scroll:    NewScrollController(),
		dirtyFrom: -1,
		log:       logger.Named("transcript"),
	}
}

func (t *Transcript) SetStatus(s Status) { t.status = s }
func (t *Transcript) Status() Status     { return t.status }

// TickSpinner advances the indicator animation one frame.
func (t *Transcript) TickSpinner() { t.spinnerFrame++ }

// SetWelcomeLines installs the preamble rendered above the first message.
func (t *Transcript) SetWelcomeLines(lines []render.Line) {
	t.welcome = render.CopyLines(lines)
	t.MarkMessageLayoutDirty(0)
}

// Messages exposes the message list read-only; callers must not mutate
// through it without marking layout dirty.
func (t *Transcript) Messages() []*Message { return t.msgs }

func (t *Transcript) Len() int { return len(t.msgs) }

// MarkMessageLayoutDirty records that message i (and nothing older)
// changed shape; the next height pass will recompute from the newest
// message back through i.
func (t *Transcript) MarkMessageLayoutDirty(i int) {
	if i < 0 {
		i = 0
	}
	if t.dirtyFrom < 0 || i < t.dirtyFrom {
		t.dirtyFrom = i
	}
}

// PushUser appends a user message.
func (t *Transcript) PushUser(text string) *Message {
	m := TextMessage(RoleUser, text)
	t.msgs = append(t.msgs, m)
	return m
}

// PushSystem appends a system notice.
func (t *Transcript) PushSystem(text string) *Message {
	m := TextMessage(RoleSystem, text)
	t.msgs = append(t.msgs, m)
	return m
}

// BeginAssistantTurn opens an empty assistant message; until content
// arrives it renders as the thinking placeholder.
func (t *Transcript) BeginAssistantTurn() *Message {
	m := NewMessage(RoleAssistant)
	t.msgs = append(t.msgs, m)
	t.status = StatusThinking
	return m
}

// AppendAssistantChunk streams a text delta into the newest assistant
// message, opening a turn if none is in progress.
func (t *Transcript) AppendAssistantChunk(delta string) {
	m := t.lastAssistant()
	if m == nil {
		m = t.BeginAssistantTurn()
	}
	m.AppendText(delta)
}

// StartToolCall adds a tool call block to the newest assistant message
// and returns its (msg, block) coordinates for AttachTerminal.
func (t *Transcript) StartToolCall(id, title string) (msg, block int) {
	m := t.lastAssistant()
	if m == nil {
		m = t.BeginAssistantTurn()
	}
	block = m.AppendToolCall(&ToolCall{ID: id, Title: title})
	return len(t.msgs) - 1, block
}

// FinishToolCall takes a final authoritative snapshot of the tool's
// output, marks it terminated, and detaches its mirror. The subprocess
// writer is gone by completion time, so the buffer lock is free; the
// retries cover a stray miss.
func (t *Transcript) FinishToolCall(msg, block int, status ToolCallStatus) {
	tc := t.toolCallAt(msg, block)
	if tc == nil {
		return
	}
	if t.attached(tc.ID) {
		tc.RequestReplaceSnapshot()
		for i := 0; i < 3 && tc.Mode() == ReplaceSnapshot; i++ {
			t.UpdateTerminalOutputs()
		}
	}
	tc.SetStatus(status)
	t.DetachTerminal(tc.ID)
	t.MarkMessageLayoutDirty(msg)
}

// EndTurn closes the streaming turn; the newest message's height cache
// becomes trustworthy again on the next pass.
func (t *Transcript) EndTurn() {
	t.status = StatusIdle
	if n := len(t.msgs); n > 0 {
		t.MarkMessageLayoutDirty(n - 1)
	}
}

// ReplaceAll swaps in a restored message list, dropping all derived
// state. Used by /clear and session resume.
func (t *Transcript) ReplaceAll(msgs []*Message) {
	t.msgs = msgs
	t.prefix = PrefixSumIndex{}
	t.scroll = NewScrollController()
	t.terminals = nil
	t.status = StatusIdle
	t.dirtyFrom = -1
	for _, m := range msgs {
		m.InvalidateLayout()
	}
	if len(msgs) > 0 {
		t.MarkMessageLayoutDirty(0)
	}
}

func (t *Transcript) lastAssistant() *Message {
	if n := len(t.msgs); n > 0 && t.msgs[n-1].Role == RoleAssistant {
		return t.msgs[n-1]
	}
	return nil
}

// Render produces the visible lines for one frame at the given viewport
// size, returning the emitted lines and the local scroll offset to apply
// to them. Heights are refreshed first, then the prefix sums; when the
// whole transcript fits, everything is rendered and scrolling is
// disabled, otherwise one scroll animation frame runs and only the
// message range covering the viewport is rendered.
func (t *Transcript) Render(width, viewportHeight int) ([]render.Line, int) {
	if width <= 0 || viewportHeight <= 0 {
		return nil, 0
	}

	t.updateVisualHeights(width)
	t.prefix.Rebuild(t.msgs, width)

	welcomeHeight := len(t.welcome)
	contentHeight := welcomeHeight + t.prefix.TotalHeight()

	var out []render.Line
	if contentHeight <= viewportHeight {
		t.scroll.Disable()
		t.renderAllMessages(width, &out)
		return out, 0
	}

	maxScroll := contentHeight - viewportHeight
	scroll := t.scroll.Advance(maxScroll)
	local := t.renderCulled(width, welcomeHeight, scroll, viewportHeight, &out)
	return out, local
}

// ContentHeight is the full transcript height at the last rendered
// width, preamble included.
func (t *Transcript) ContentHeight() int {
	return len(t.welcome) + t.prefix.TotalHeight()
}

// ScrollBy, ScrollToTop and ScrollToBottom forward to the controller.
func (t *Transcript) ScrollBy(delta int) { t.scroll.ScrollBy(delta) }
func (t *Transcript) ScrollToTop()       { t.scroll.ToTop() }
func (t *Transcript) ScrollToBottom()    { t.scroll.ToBottom() }
func (t *Transcript) AutoScroll() bool   { return t.scroll.AutoScroll() }
func (t *Transcript) ScrollOffset() int  { return t.scroll.Offset() }

// PlainText flattens the transcript for clipboard export.
func (t *Transcript) PlainText() string {
	var b strings.Builder
	for i, m := range t.msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role.String())
		b.WriteString(": ")
		b.WriteString(m.PlainText())
	}
	return b.String()
}
