package transcript

// Role identifies who produced a message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleSystem
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Message is one turn entry: an ordered sequence of blocks plus the
// cached visual height for the width it was last laid out at. Messages
// are append-only; only the newest one mutates while a turn streams.
// A message's index in the transcript is its identity.
type Message struct {
	Role   Role
	Blocks []*Block

	cachedHeight int
	cachedWidth  int
}

// NewMessage creates an empty message for a role turn.
func NewMessage(role Role) *Message {
	return &Message{Role: role}
}

// TextMessage creates a message holding a single text block.
func TextMessage(role Role, content string) *Message {
	return &Message{Role: role, Blocks: []*Block{NewTextBlock(content)}}
}

// InvalidateLayout drops the cached height so the next invalidation scan
// recomputes this message. Any path that edits a non-tail message must
// call this before relying on the scan's early exit.
func (m *Message) InvalidateLayout() {
	m.cachedHeight = 0
	m.cachedWidth = 0
}

// CachedHeight returns the memoized visual height and the width it was
// computed at. A zero height means the cache is stale.
func (m *Message) CachedHeight() (height, width int) {
	return m.cachedHeight, m.cachedWidth
}

// lastBlock returns the final block, or nil for an empty message.
func (m *Message) lastBlock() *Block {
	if len(m.Blocks) == 0 {
		return nil
	}
	return m.Blocks[len(m.Blocks)-1]
}

// AppendText adds streamed text to the message. Text arriving after a
// tool call opens a new text block; otherwise it extends the last one.
func (m *Message) AppendText(chunk string) {
	if chunk == "" {
		return
	}
	last := m.lastBlock()
	if last == nil || last.Kind != BlockText {
		m.Blocks = append(m.Blocks, NewTextBlock(chunk))
		return
	}
	last.Text.Append(chunk)
}

// AppendToolCall attaches a tool call panel as a new block and returns
// its block index.
func (m *Message) AppendToolCall(tc *ToolCall) int {
	m.Blocks = append(m.Blocks, NewToolCallBlock(tc))
	return len(m.Blocks) - 1
}

// ToolCallAt returns the tool call at block index, or nil.
func (m *Message) ToolCallAt(block int) *ToolCall {
	if block < 0 || block >= len(m.Blocks) {
		return nil
	}
	b := m.Blocks[block]
	if b.Kind != BlockToolCall {
		return nil
	}
	return b.Tool
}

// PlainText joins the message's text blocks for persistence.
func (m *Message) PlainText() string {
	out := ""
	for _, b := range m.Blocks {
		if b.Kind != BlockText {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += b.Text.Content
	}
	return out
}
