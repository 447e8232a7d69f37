package term

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"glyph-cli/internal/logger"
)

const (
	// maxBufferBytes caps the retained output per session; older bytes
	// are trimmed from the front once exceeded.
	maxBufferBytes = 1 << 20
	maxSessions    = 64
)

// Session is one live subprocess behind a pty. A dedicated goroutine
// drains the pty into buf; the UI thread reads deltas through ReadOutput
// without ever blocking on the reader.
type Session struct {
	ID      string
	Command string

	cmd  *exec.Cmd
	ptmx *os.File

	done chan struct{}
	once sync.Once

	mu       sync.Mutex
	buf      []byte
	trimmed  int64
	exitCode *int
	exitErr  error
	lastUsed time.Time
}

// Start launches command under a pty and begins draining its output.
func Start(ctx context.Context, command, workdir string) (*Session, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("empty command")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, "bash", "-lc", command)
	if strings.TrimSpace(workdir) != "" {
		cmd.Dir = workdir
	}
	cmd.Env = plainEnv(os.Environ())

	s := &Session{
		ID:       uuid.NewString(),
		Command:  command,
		cmd:      cmd,
		done:     make(chan struct{}),
		lastUsed: time.Now(),
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	s.ptmx = ptmx

	go s.readLoop()
	go s.waitLoop()
	return s, nil
}

// ReadOutput returns the bytes past offset and the total number of
// bytes the subprocess has produced so far, copying under the lock.
// offset is a position in that stream, so size keeps growing across
// front trims and a caught-up reader never stalls at the cap. A reader
// whose offset fell behind the retained window resumes from the
// window's start; an offset past the end gets the whole window back
// with size below it, which readers treat as a reset. ok is false if
// the lock was busy; the caller retries next frame.
func (s *Session) ReadOutput(offset int) (data []byte, size int, ok bool) {
	if !s.mu.TryLock() {
		return nil, 0, false
	}
	defer s.mu.Unlock()

	base := int(s.trimmed)
	size = base + len(s.buf)
	if offset < base || offset > size {
		offset = base
	}
	if offset < size {
		data = append([]byte(nil), s.buf[offset-base:]...)
	}
	return data, size, true
}

// Write sends keystrokes to the subprocess's stdin.
func (s *Session) Write(chars string) error {
	_, err := io.WriteString(s.ptmx, chars)
	return err
}

// Resize propagates the visible panel size to the pty.
func (s *Session) Resize(rows, cols int) error {
	return pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// ExitCode returns the exit code once the process finished, else nil.
func (s *Session) ExitCode() (*int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode, s.exitErr
}

// Done is closed when the process has exited and the pty is released.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Close() {
	s.once.Do(func() {
		if s.ptmx != nil {
			_ = s.ptmx.Close()
		}
		close(s.done)
	})
}

func (s *Session) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) readLoop() {
	tmp := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(tmp)
		if n > 0 {
			s.mu.Lock()
			s.appendLocked(tmp[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// appendLocked grows buf, trimming from the front past the cap.
// trimmed counts the dropped bytes so ReadOutput can keep reporting
// stream positions.
func (s *Session) appendLocked(p []byte) {
	if len(p) >= maxBufferBytes {
		s.trimmed += int64(len(s.buf) + len(p) - maxBufferBytes)
		s.buf = append(s.buf[:0], p[len(p)-maxBufferBytes:]...)
		return
	}
	if len(s.buf)+len(p) > maxBufferBytes {
		drop := len(s.buf) + len(p) - maxBufferBytes
		s.trimmed += int64(drop)
		s.buf = append(s.buf[:0], s.buf[drop:]...)
	}
	s.buf = append(s.buf, p...)
}

func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	s.mu.Lock()
	s.exitCode = &code
	s.exitErr = err
	s.mu.Unlock()
	s.Close()
}

// Manager tracks live sessions by id and bounds their count.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	log      *logger.LogEntry
}

func NewManager() *Manager {
	return &Manager{
		sessions: map[string]*Session{},
		log:      logger.Named("term"),
	}
}

// Start launches a session and registers it, evicting finished or stale
// sessions when the table is full.
func (m *Manager) Start(ctx context.Context, command, workdir string) (*Session, error) {
	s, err := Start(ctx, command, workdir)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.pruneLocked()
	if len(m.sessions) >= maxSessions {
		m.mu.Unlock()
		s.Close()
		_ = s.cmd.Process.Kill()
		return nil, fmt.Errorf("too many active sessions")
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.WithField("session", s.ID).Debugf("started: %s", command)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.touch()
	}
	return s, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) pruneLocked() {
	if len(m.sessions) < maxSessions {
		return
	}
	for id, s := range m.sessions {
		if s.isDone() {
			delete(m.sessions, id)
			s.Close()
		}
		if len(m.sessions) < maxSessions {
			return
		}
	}
	// Still full: evict the least recently used.
	var oldestID string
	var oldest time.Time
	for id, s := range m.sessions {
		s.mu.Lock()
		t := s.lastUsed
		s.mu.Unlock()
		if oldestID == "" || t.Before(oldest) {
			oldestID = id
			oldest = t
		}
	}
	if oldestID != "" {
		s := m.sessions[oldestID]
		delete(m.sessions, oldestID)
		if s != nil {
			s.Close()
		}
	}
}

// plainEnv scrubs the environment so subprocess output stays readable in
// a dumb panel.
func plainEnv(base []string) []string {
	env := append([]string{}, base...)
	env = setEnv(env, "NO_COLOR", "1")
	env = setEnv(env, "TERM", "dumb")
	env = setEnv(env, "PAGER", "cat")
	env = setEnv(env, "GIT_PAGER", "cat")
	env = setEnv(env, "GIT_TERMINAL_PROMPT", "0")
	return env
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
