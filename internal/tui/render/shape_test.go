package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func linesPlain(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Plain()
	}
	return out
}

func TestShapeTextMatchesFullWrap(t *testing.T) {
	style := lipgloss.NewStyle()
	chunks := []string{
		"Streaming text arrives ",
		"in small pieces, someti",
		"mes splitting words.\nNew paragraphs ",
		"start after newlines and keep growing until",
		" the block is complete.\n",
		"trailing tail without newline",
	}

	var st ShapeState
	content := ""
	for i, chunk := range chunks {
		content += chunk
		incremental := linesPlain(ShapeText(content, &st, 24, style))
		full := WrapText(content, 24)
		if strings.Join(incremental, "|") != strings.Join(full, "|") {
			t.Fatalf("chunk %d: incremental %q != full %q", i, incremental, full)
		}
	}
}

func TestShapeTextSealsParagraphs(t *testing.T) {
	style := lipgloss.NewStyle()
	var st ShapeState

	ShapeText("first line\nsecond line\npartial", &st, 40, style)
	sealedBefore := len(st.sealed)
	if sealedBefore != 2 {
		t.Fatalf("sealed %d lines, want 2", sealedBefore)
	}

	// Growing the tail must not re-seal the finished paragraphs.
	ShapeText("first line\nsecond line\npartial grows here", &st, 40, style)
	if len(st.sealed) != sealedBefore {
		t.Fatalf("tail growth re-sealed: %d lines", len(st.sealed))
	}
}

func TestShapeTextWidthChangeResets(t *testing.T) {
	style := lipgloss.NewStyle()
	var st ShapeState
	ShapeText("some wrapped text here\nmore", &st, 10, style)

	got := linesPlain(ShapeText("some wrapped text here\nmore", &st, 20, style))
	want := WrapText("some wrapped text here\nmore", 20)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("after resize: %q != %q", got, want)
	}
}

func TestShapeTextContentShrinkResets(t *testing.T) {
	style := lipgloss.NewStyle()
	var st ShapeState
	ShapeText("a long first pass\nwith lines\n", &st, 40, style)

	got := linesPlain(ShapeText("short", &st, 40, style))
	want := WrapText("short", 40)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("after shrink: %q != %q", got, want)
	}
}

func TestShapeTextNilState(t *testing.T) {
	got := linesPlain(ShapeText("plain call", nil, 40, lipgloss.NewStyle()))
	want := WrapText("plain call", 40)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("nil state: %q != %q", got, want)
	}
}
