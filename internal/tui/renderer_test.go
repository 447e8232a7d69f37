package tui

import (
	"reflect"
	"strings"
	"testing"

	"glyph-cli/internal/transcript"
	"glyph-cli/internal/tui/render"
)

func TestTailLines(t *testing.T) {
	cases := []struct {
		name string
		text string
		n    int
		want []string
	}{
		{"empty", "", 5, nil},
		{"short", "a\nb", 5, []string{"a", "b"}},
		{"truncated", "1\n2\n3\n4\n5", 3, []string{"3", "4", "5"}},
		{"trailing newline dropped", "a\nb\n", 5, []string{"a", "b"}},
		{"partial last line kept", "done\nrunni", 5, []string{"done", "runni"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tailLines(tc.text, tc.n)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("tailLines(%q, %d) = %q, want %q", tc.text, tc.n, got, tc.want)
			}
		})
	}
}

func TestToolPanelCachesOnlyWhenTerminated(t *testing.T) {
	r := messageRenderer{}

	running := &transcript.ToolCall{ID: "a", Title: "sleep 10", Status: transcript.ToolInProgress, Output: "zzz"}
	var out []render.Line
	r.RenderToolCall(running, 80, 0, &out)
	if _, ok := running.Cache.HeightAt(80); ok {
		t.Fatalf("running tool panel must not be cached")
	}

	done := &transcript.ToolCall{ID: "b", Title: "ls", Status: transcript.ToolCompleted, Output: "a.txt\nb.txt"}
	out = out[:0]
	r.RenderToolCall(done, 80, 0, &out)
	if h, ok := done.Cache.HeightAt(80); !ok || h != len(out) {
		t.Fatalf("terminated panel cache = %d,%v, want %d,true", h, ok, len(out))
	}
}

func TestToolPanelSpinnerVariesWithFrame(t *testing.T) {
	r := messageRenderer{}
	tc := &transcript.ToolCall{ID: "a", Title: "build", Status: transcript.ToolInProgress}

	var f0, f1 []render.Line
	r.RenderToolCall(tc, 80, 0, &f0)
	r.RenderToolCall(tc, 80, 1, &f1)
	if f0[0].Plain() == f1[0].Plain() {
		t.Fatalf("spinner frame did not advance: %q", f0[0].Plain())
	}
}

func TestTextBlockRenderCachesAndMatchesWrap(t *testing.T) {
	r := messageRenderer{}
	b := &transcript.TextBlock{Content: "some assistant text that will wrap across rows"}

	var out []render.Line
	r.RenderText(b, transcript.RoleAssistant, 20, &out)

	want := render.WrapText(b.Content, 20)
	if len(out) != len(want) {
		t.Fatalf("rendered %d lines, wrap gives %d", len(out), len(want))
	}
	for i := range out {
		if out[i].Plain() != want[i] {
			t.Fatalf("line %d: %q != %q", i, out[i].Plain(), want[i])
		}
	}
	if h, ok := b.Cache.HeightAt(20); !ok || h != len(out) {
		t.Fatalf("text cache = %d,%v, want %d,true", h, ok, len(out))
	}
}

func TestRoleLabels(t *testing.T) {
	r := messageRenderer{}
	for _, tc := range []struct {
		role transcript.Role
		want string
	}{
		{transcript.RoleUser, "you"},
		{transcript.RoleAssistant, "glyph"},
		{transcript.RoleSystem, "system"},
	} {
		label := r.RoleLabel(tc.role).Plain()
		if !strings.Contains(label, tc.want) {
			t.Fatalf("label for %v = %q, want substring %q", tc.role, label, tc.want)
		}
	}
}
