package transcript

import "bytes"

// OutputSource is a live, append-mostly byte buffer written by an
// out-of-band process-output reader. ReadOutput copies the bytes past
// offset under the buffer's lock and reports the source's size, a
// position that normally only grows as output arrives; a size below
// the caller's watermark means the content was reset and the returned
// data replaces what was mirrored so far. ok is false when the lock
// could not be acquired, in which case the caller skips this source
// for the frame. No decoding happens under the lock.
type OutputSource interface {
	ReadOutput(offset int) (data []byte, size int, ok bool)
}

// terminalRef binds a live output source to the tool call block that
// displays it. Message/block indices are non-owning references into the
// transcript.
type terminalRef struct {
	id    string
	src   OutputSource
	msg   int
	block int
}

// AttachTerminal registers a live output source for the tool call at
// (msg, block). The synchronizer mirrors it into the panel each frame.
func (t *Transcript) AttachTerminal(id string, src OutputSource, msg, block int) {
	t.terminals = append(t.terminals, terminalRef{id: id, src: src, msg: msg, block: block})
}

// DetachTerminal stops mirroring the given source. The tool call keeps
// whatever output was last synchronized.
func (t *Transcript) DetachTerminal(id string) {
	kept := t.terminals[:0]
	for _, ref := range t.terminals {
		if ref.id != id {
			kept = append(kept, ref)
		}
	}
	t.terminals = kept
}

// UpdateTerminalOutputs mirrors every attached output buffer into its
// tool call's displayed text, once per frame. Unchanged buffers are a
// no-op; grown buffers apply only the delta (Append path); a shrunk
// buffer or an explicit ReplaceSnapshot request resends the whole buffer
// (Replace path), marking the panel dirty only if the decoded text
// actually differs. Returns whether any tool call changed this frame;
// the earliest changed message is forwarded to the invalidation scan so
// its short-circuit stays sound.
func (t *Transcript) UpdateTerminalOutputs() bool {
	changed := false
	dirtyFrom := -1

	for _, ref := range t.terminals {
		tc := t.toolCallAt(ref.msg, ref.block)
		if tc == nil {
			continue
		}

		forced := tc.mode == ReplaceSnapshot
		from := tc.bytesSeen
		if forced {
			from = 0
		}
		data, size, ok := ref.src.ReadOutput(from)
		if !ok {
			// Lock unavailable; skip just this tool call for the frame.
			t.log.WithField("terminal", ref.id).Debug("output buffer busy, skipping frame")
			continue
		}
		if !forced && size == tc.bytesSeen {
			continue
		}

		blockChanged := false
		if !forced && size > tc.bytesSeen {
			// Append path: decode only the delta.
			if len(data) > 0 {
				tc.Output += decodeLossy(data)
				blockChanged = true
			}
		} else {
			// Replace path: buffer shrank, was reset, or a replace was
			// requested. Only invalidate when the text really differs.
			if size < tc.bytesSeen {
				t.replaceFallbacks++
			}
			text := decodeLossy(data)
			if text != tc.Output {
				tc.Output = text
				blockChanged = true
			}
		}

		tc.bytesSeen = size
		tc.seenLen = size
		tc.mode = AppendOnly

		if blockChanged {
			tc.Cache.Invalidate()
			if dirtyFrom < 0 || ref.msg < dirtyFrom {
				dirtyFrom = ref.msg
			}
			changed = true
		}
	}

	if dirtyFrom >= 0 {
		t.MarkMessageLayoutDirty(dirtyFrom)
	}
	return changed
}

// ReplaceFallbacks is the diagnostic count of shrink-triggered full
// snapshots.
func (t *Transcript) ReplaceFallbacks() int { return t.replaceFallbacks }

func (t *Transcript) attached(id string) bool {
	for _, ref := range t.terminals {
		if ref.id == id {
			return true
		}
	}
	return false
}

func (t *Transcript) toolCallAt(msg, block int) *ToolCall {
	if msg < 0 || msg >= len(t.msgs) {
		return nil
	}
	return t.msgs[msg].ToolCallAt(block)
}

// decodeLossy converts raw subprocess bytes to text, replacing invalid
// UTF-8 sequences instead of failing.
func decodeLossy(data []byte) string {
	return string(bytes.ToValidUTF8(data, []byte("�")))
}
