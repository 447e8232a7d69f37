package transcript

import "glyph-cli/internal/tui/render"

// BlockKind tags the two renderable block variants. Spacing rules between
// adjacent blocks are a pure function of these tags.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockToolCall
)

// ToolCallStatus is the lifecycle of a tool invocation panel.
type ToolCallStatus int

const (
	ToolPending ToolCallStatus = iota
	ToolInProgress
	ToolCompleted
	ToolFailed
)

func (s ToolCallStatus) String() string {
	switch s {
	case ToolPending:
		return "pending"
	case ToolInProgress:
		return "in_progress"
	case ToolCompleted:
		return "completed"
	case ToolFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminated reports whether the tool call reached a final status.
func (s ToolCallStatus) Terminated() bool {
	return s == ToolCompleted || s == ToolFailed
}

// SnapshotMode controls how the next frame mirrors a tool call's live
// output buffer: incremental delta append, or a full resend.
type SnapshotMode int

const (
	AppendOnly SnapshotMode = iota
	ReplaceSnapshot
)

// TextBlock is a streamed run of message text with its shaping state and
// render cache.
type TextBlock struct {
	Content string
	Shape   render.ShapeState
	Cache   BlockCache
}

// Append adds a streamed chunk and invalidates the render cache. The
// shaping state is kept: sealed paragraphs re-wrap for free.
func (b *TextBlock) Append(chunk string) {
	if chunk == "" {
		return
	}
	b.Content += chunk
	b.Cache.Invalidate()
}

// SetContent replaces the text wholesale, dropping incremental state.
func (b *TextBlock) SetContent(content string) {
	if b.Content == content {
		return
	}
	b.Content = content
	b.Shape.Reset()
	b.Cache.Invalidate()
}

// ToolCall is a tool invocation panel: metadata, lifecycle status, and
// the accumulated display text mirrored from a live output buffer.
type ToolCall struct {
	ID     string
	Title  string
	Status ToolCallStatus
	Output string
	Cache  BlockCache

	// Runtime state of the output synchronizer. bytesSeen is a monotonic
	// watermark into the source buffer while mode is AppendOnly.
	bytesSeen int
	seenLen   int
	mode      SnapshotMode
}

// SetStatus moves the tool call through its lifecycle and invalidates
// the panel render.
func (tc *ToolCall) SetStatus(status ToolCallStatus) {
	if tc.Status == status {
		return
	}
	tc.Status = status
	tc.Cache.Invalidate()
}

// SetTitle updates the panel title.
func (tc *ToolCall) SetTitle(title string) {
	if tc.Title == title {
		return
	}
	tc.Title = title
	tc.Cache.Invalidate()
}

// RequestReplaceSnapshot forces the next synchronizer pass to resend the
// whole buffer instead of applying a delta.
func (tc *ToolCall) RequestReplaceSnapshot() {
	tc.mode = ReplaceSnapshot
}

// BytesSeen exposes the synchronizer watermark.
func (tc *ToolCall) BytesSeen() int { return tc.bytesSeen }

// Mode exposes the current snapshot mode.
func (tc *ToolCall) Mode() SnapshotMode { return tc.mode }

// Block is a tagged variant over the renderable units of a message.
// Exactly one of Text and Tool is set, matching Kind.
type Block struct {
	Kind BlockKind
	Text *TextBlock
	Tool *ToolCall
}

// NewTextBlock wraps content in a text block.
func NewTextBlock(content string) *Block {
	return &Block{Kind: BlockText, Text: &TextBlock{Content: content}}
}

// NewToolCallBlock wraps a tool call in a block.
func NewToolCallBlock(tc *ToolCall) *Block {
	return &Block{Kind: BlockToolCall, Tool: tc}
}

func (b *Block) cache() *BlockCache {
	switch b.Kind {
	case BlockToolCall:
		return &b.Tool.Cache
	default:
		return &b.Text.Cache
	}
}

// blockGap returns the blank separator rows between two adjacent blocks:
// one at a text<->tool transition, none between blocks of the same kind.
func blockGap(prev, next BlockKind) int {
	if prev != next {
		return 1
	}
	return 0
}
