package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"glyph-cli/internal/tui/render"
)

// selection tracks a mouse drag over the transcript area in content
// coordinates (row index into the visible slice, column in cells).
type selection struct {
	active   bool
	dragging bool
	startRow int
	startCol int
	endRow   int
	endCol   int
}

func (s *selection) begin(row, col int) {
	s.active = true
	s.dragging = true
	s.startRow, s.startCol = row, col
	s.endRow, s.endCol = row, col
}

func (s *selection) extend(row, col int) {
	if !s.dragging {
		return
	}
	s.endRow, s.endCol = row, col
}

func (s *selection) finish() {
	s.dragging = false
}

func (s *selection) clear() {
	*s = selection{}
}

// normalized returns the selection with start before end in reading
// order.
func (s *selection) normalized() (r1, c1, r2, c2 int) {
	r1, c1, r2, c2 = s.startRow, s.startCol, s.endRow, s.endCol
	if r2 < r1 || (r2 == r1 && c2 < c1) {
		r1, c1, r2, c2 = r2, c2, r1, c1
	}
	return
}

// rowSpan returns the selected cell range on row, or ok=false when the
// row is outside the selection. end=-1 means to end of line.
func (s *selection) rowSpan(row int) (start, end int, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	r1, c1, r2, c2 := s.normalized()
	if row < r1 || row > r2 {
		return 0, 0, false
	}
	start, end = 0, -1
	if row == r1 {
		start = c1
	}
	if row == r2 {
		end = c2 + 1
	}
	return start, end, true
}

// extractText collects the selected text from the visible lines, one
// string per selected row, joined by newlines.
func (s *selection) extractText(lines []render.Line) string {
	if !s.active {
		return ""
	}
	var rows []string
	for i := range lines {
		start, end, ok := s.rowSpan(i)
		if !ok {
			continue
		}
		rows = append(rows, sliceCells(lines[i].Plain(), start, end))
	}
	return strings.Join(rows, "\n")
}

// overlaySelection renders the visible lines with the selected region
// reversed. Unselected rows render with their own styles; selected rows
// are re-rendered from plain text so the highlight spans whole cells.
func (s *selection) overlaySelection(lines []render.Line) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		start, end, ok := s.rowSpan(i)
		if !ok {
			out = append(out, render.LinesToStrings([]render.Line{line})[0])
			continue
		}
		plain := line.Plain()
		before := sliceCells(plain, 0, start)
		mid := sliceCells(plain, start, end)
		after := ""
		if end >= 0 {
			after = sliceCells(plain, end, -1)
		}
		out = append(out, before+selectionStyle.Render(mid)+after)
	}
	return out
}

// sliceCells cuts a string by display-cell positions; end=-1 means to
// the end.
func sliceCells(s string, start, end int) string {
	var sb strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w >= start && (end < 0 || w < end) {
			sb.WriteRune(r)
		}
		w += rw
		if end >= 0 && w > end {
			break
		}
	}
	return sb.String()
}
