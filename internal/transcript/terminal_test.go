package transcript

import "testing"

// scriptedSource is an in-memory OutputSource with controllable buffer
// contents and lock availability.
type scriptedSource struct {
	buf  []byte
	busy bool
}

func (s *scriptedSource) ReadOutput(offset int) ([]byte, int, bool) {
	if s.busy {
		return nil, 0, false
	}
	size := len(s.buf)
	switch {
	case offset > size || offset < 0:
		return append([]byte(nil), s.buf...), size, true
	case offset < size:
		return append([]byte(nil), s.buf[offset:]...), size, true
	}
	return nil, size, true
}

func attachTool(t *testing.T) (*Transcript, *scriptedSource, *ToolCall) {
	t.Helper()
	tr, _ := newTestTranscript()
	tr.PushUser("run it")
	tr.BeginAssistantTurn()
	msgIdx, blockIdx := tr.StartToolCall("t1", "tail -f log")

	src := &scriptedSource{}
	tr.AttachTerminal("t1", src, msgIdx, blockIdx)
	tc := tr.msgs[msgIdx].ToolCallAt(blockIdx)
	if tc == nil {
		t.Fatalf("tool call not found at (%d,%d)", msgIdx, blockIdx)
	}
	return tr, src, tc
}

func TestTerminalAppendsDeltasOnly(t *testing.T) {
	tr, src, tc := attachTool(t)

	src.buf = []byte("abc")
	if !tr.UpdateTerminalOutputs() {
		t.Fatalf("first sync reported no change")
	}
	if tc.Output != "abc" || tc.BytesSeen() != 3 {
		t.Fatalf("after first sync: output %q seen %d", tc.Output, tc.BytesSeen())
	}

	src.buf = []byte("abcdef")
	tr.UpdateTerminalOutputs()
	if tc.Output != "abcdef" || tc.BytesSeen() != 6 {
		t.Fatalf("after growth: output %q seen %d", tc.Output, tc.BytesSeen())
	}
	if tr.ReplaceFallbacks() != 0 {
		t.Fatalf("append-only growth triggered %d replaces", tr.ReplaceFallbacks())
	}
}

func TestTerminalUnchangedBufferIsNoop(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte("abc")
	tr.UpdateTerminalOutputs()

	if tr.UpdateTerminalOutputs() {
		t.Fatalf("unchanged buffer reported a change")
	}
	if tc.Output != "abc" {
		t.Fatalf("output mutated on idle sync: %q", tc.Output)
	}
}

func TestTerminalShrinkForcesReplace(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = make([]byte, 50)
	for i := range src.buf {
		src.buf[i] = 'a'
	}
	tr.UpdateTerminalOutputs()

	src.buf = []byte("0123456789")
	if !tr.UpdateTerminalOutputs() {
		t.Fatalf("shrink reported no change")
	}
	if tc.Output != "0123456789" {
		t.Fatalf("shrink did not replace output: %q", tc.Output)
	}
	if tc.BytesSeen() != 10 {
		t.Fatalf("watermark after shrink = %d, want 10", tc.BytesSeen())
	}
	if tr.ReplaceFallbacks() != 1 {
		t.Fatalf("replace fallback count = %d, want 1", tr.ReplaceFallbacks())
	}
}

func TestTerminalRequestedReplaceWithSameTextIsClean(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte("same")
	tr.UpdateTerminalOutputs()

	tc.RequestReplaceSnapshot()
	if tr.UpdateTerminalOutputs() {
		t.Fatalf("identical replace reported a change")
	}
	if tc.Mode() != AppendOnly {
		t.Fatalf("mode not reset after replace pass")
	}
	if tr.ReplaceFallbacks() != 0 {
		t.Fatalf("requested replace counted as shrink fallback")
	}
}

func TestFinishToolCallSnapshotsFinalOutput(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte("building...\n")
	tr.UpdateTerminalOutputs()

	// Bytes that arrived after the last frame sync must still land.
	src.buf = append(src.buf, []byte("done\n")...)
	tr.FinishToolCall(1, 0, ToolCompleted)

	if tc.Output != "building...\ndone\n" {
		t.Fatalf("final output = %q", tc.Output)
	}
	if tc.Status != ToolCompleted {
		t.Fatalf("status = %v, want completed", tc.Status)
	}
	if tc.Mode() != AppendOnly {
		t.Fatalf("snapshot did not reset mode")
	}

	src.buf = append(src.buf, []byte("late\n")...)
	if tr.UpdateTerminalOutputs() {
		t.Fatalf("finished tool still mirrored")
	}
	if tc.Output != "building...\ndone\n" {
		t.Fatalf("output changed after finish: %q", tc.Output)
	}
}

func TestTerminalBusyLockSkipsFrame(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte("abc")
	src.busy = true

	if tr.UpdateTerminalOutputs() {
		t.Fatalf("busy source reported a change")
	}
	if tc.Output != "" || tc.BytesSeen() != 0 {
		t.Fatalf("busy frame mutated state: %q / %d", tc.Output, tc.BytesSeen())
	}

	src.busy = false
	tr.UpdateTerminalOutputs()
	if tc.Output != "abc" {
		t.Fatalf("retry after busy frame failed: %q", tc.Output)
	}
}

func TestTerminalInvalidUTF8IsReplaced(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte{'o', 'k', 0xff, 0xfe}
	tr.UpdateTerminalOutputs()
	if tc.Output != "ok�" && tc.Output != "ok��" {
		t.Fatalf("lossy decode produced %q", tc.Output)
	}
	if tc.BytesSeen() != 4 {
		t.Fatalf("watermark counts bytes, got %d", tc.BytesSeen())
	}
}

func TestTerminalChangeMarksLayoutDirty(t *testing.T) {
	tr, src, _ := attachTool(t)
	tr.Render(80, 10)

	src.buf = []byte("new output")
	tr.UpdateTerminalOutputs()
	if tr.dirtyFrom < 0 {
		t.Fatalf("terminal change did not mark layout dirty")
	}
}

func TestDetachStopsMirroring(t *testing.T) {
	tr, src, tc := attachTool(t)
	src.buf = []byte("abc")
	tr.UpdateTerminalOutputs()

	tr.DetachTerminal("t1")
	src.buf = []byte("abcdef")
	if tr.UpdateTerminalOutputs() {
		t.Fatalf("detached source still mirrored")
	}
	if tc.Output != "abc" {
		t.Fatalf("output changed after detach: %q", tc.Output)
	}
}
