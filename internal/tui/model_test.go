package tui

import (
	"strings"
	"testing"

	"glyph-cli/internal/agent"
)

func TestShortTranscriptBottomAligned(t *testing.T) {
	m := New(Options{Client: agent.EchoClient{}, Model: "test-model", Workdir: "/tmp"})
	m.resize(80, 24)
	m.chat.PushUser("hello")
	m.finish()

	rows := m.chatRows()
	if len(rows) != m.viewHeight {
		t.Fatalf("chat pane has %d rows, want %d", len(rows), m.viewHeight)
	}
	pad := m.viewHeight - len(m.visibleSlice())
	if pad <= 0 {
		t.Fatalf("short transcript unexpectedly fills the viewport")
	}
	for i := 0; i < pad; i++ {
		if rows[i] != "" {
			t.Fatalf("row %d above the content = %q, want blank", i, rows[i])
		}
	}
	if rows[pad] == "" {
		t.Fatalf("first content row is blank")
	}
}

func TestTallTranscriptFillsViewport(t *testing.T) {
	m := New(Options{Client: agent.EchoClient{}, Model: "test-model", Workdir: "/tmp"})
	m.resize(80, 24)
	for i := 0; i < 40; i++ {
		m.chat.PushUser(strings.Repeat("x", 10))
	}
	m.finish()

	rows := m.chatRows()
	if len(rows) != m.viewHeight {
		t.Fatalf("chat pane has %d rows, want %d", len(rows), m.viewHeight)
	}
	if rows[0] == "" && rows[1] == "" {
		t.Fatalf("tall transcript padded at the top")
	}
}
