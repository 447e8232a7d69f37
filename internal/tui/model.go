package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"glyph-cli/internal/agent"
	"glyph-cli/internal/logger"
	"glyph-cli/internal/session"
	"glyph-cli/internal/term"
	"glyph-cli/internal/transcript"
	"glyph-cli/internal/tui/render"
)

// frameInterval paces the animation loop: spinner frames, scroll easing
// and terminal output mirroring all advance once per frame.
const frameInterval = 33 * time.Millisecond

type Options struct {
	Client           agent.ModelClient
	Model            string
	Workdir          string
	InitialMessages  []agent.Message
	ResumeSessionID  string
	MouseScrollLines int
}

type frameMsg time.Time

type streamEvent struct {
	chunk string
	item  json.RawMessage
	done  bool
	err   error
}

type streamEnvelopeMsg struct {
	ev streamEvent
	ok bool
}

type toolDoneMsg struct {
	sessionID string
	msg       int
	block     int
	exitCode  int
}

type mentionFilesMsg struct {
	paths []string
	err   error
}

type systemNoticeMsg struct {
	text string
}

type toolRef struct {
	msg   int
	block int
}

// uiModel is the single Bubble Tea model of the client.
type uiModel struct {
	composer   textarea.Model
	sessions   list.Model
	chat       *transcript.Transcript
	terms      *term.Manager
	client     agent.ModelClient
	history    []agent.Message
	modelName  string
	workdir    string
	sessionID  string
	mouseLines int

	width      int
	height     int
	viewHeight int

	// visible/localScroll hold the last transcript render; View slices
	// them without recomputing layout.
	visible     []render.Line
	localScroll int

	streamCh     chan streamEvent
	pending      bool
	streamDone   bool
	runningTools map[string]toolRef
	turnText     strings.Builder

	mention   mentionState
	mentionAt int

	sel selection

	pickingSession bool
	err            error

	log *logger.LogEntry
}

func New(opts Options) *uiModel {
	ti := textarea.New()
	ti.Placeholder = "Ask glyph anything…"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.SetWidth(90)
	ti.SetHeight(1)
	ti.ShowLineNumbers = false
	ti.Focus()

	sessions := list.New(nil, list.NewDefaultDelegate(), 40, 10)
	sessions.Title = "Resume session"
	sessions.SetShowStatusBar(false)
	sessions.DisableQuitKeybindings()

	mouseLines := opts.MouseScrollLines
	if mouseLines <= 0 {
		mouseLines = 3
	}

	m := &uiModel{
		composer:     ti,
		sessions:     sessions,
		chat:         transcript.New(messageRenderer{}),
		terms:        term.NewManager(),
		client:       opts.Client,
		modelName:    opts.Model,
		workdir:      opts.Workdir,
		sessionID:    opts.ResumeSessionID,
		mouseLines:   mouseLines,
		mentionAt:    -1,
		runningTools: map[string]toolRef{},
		width:        90,
		height:       24,
		viewHeight:   20,
		log:          logger.Named("tui"),
	}
	if len(opts.InitialMessages) > 0 {
		m.history = append(m.history, opts.InitialMessages...)
		m.chat.ReplaceAll(messagesToTranscript(opts.InitialMessages))
	}
	m.chat.SetWelcomeLines(welcomeLines(m.modelName, m.workdir, m.width))
	return m
}

func (m *uiModel) Init() tea.Cmd {
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)

	case frameMsg:
		m.chat.TickSpinner()
		m.chat.UpdateTerminalOutputs()
		cmds = append(cmds, frameTick())
		return m.finish(cmds...)

	case streamEnvelopeMsg:
		cmds = append(cmds, m.handleStreamEvent(msg)...)
		return m.finish(cmds...)

	case toolDoneMsg:
		m.handleToolDone(msg)
		return m.finish(cmds...)

	case mentionFilesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m.finish(cmds...)
		}
		m.mention.openWith(msg.paths)
		return m.finish(cmds...)

	case systemNoticeMsg:
		m.chat.PushSystem(msg.text)
		return m.finish(cmds...)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m.finish(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.setComposerHeight()
	cmds = append(cmds, cmd)
	return m.finish(cmds...)
}

// finish re-renders the transcript once per update so View stays a pure
// slice of precomputed lines.
func (m *uiModel) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.visible, m.localScroll = m.chat.Render(m.width, m.viewHeight)
	return m, tea.Batch(cmds...)
}

func (m *uiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.mention.open {
		return m.handleMentionKey(msg)
	}
	if m.pickingSession {
		return m.handleSessionKey(msg)
	}

	switch msg.Type {
	case tea.KeyPgUp:
		m.chat.ScrollBy(-m.viewHeight)
		return m.finish(cmds...)
	case tea.KeyPgDown:
		m.chat.ScrollBy(m.viewHeight)
		return m.finish(cmds...)
	case tea.KeyHome:
		m.chat.ScrollToTop()
		return m.finish(cmds...)
	case tea.KeyEnd:
		m.chat.ScrollToBottom()
		return m.finish(cmds...)
	case tea.KeyUp:
		if msg.Alt || m.composerAtTop() {
			m.chat.ScrollBy(-1)
			return m.finish(cmds...)
		}
	case tea.KeyDown:
		if msg.Alt || m.composerAtBottom() {
			m.chat.ScrollBy(1)
			return m.finish(cmds...)
		}
	case tea.KeyEsc:
		if m.sel.active {
			m.sel.clear()
			return m.finish(cmds...)
		}
	}

	switch msg.String() {
	case "ctrl+c":
		m.saveSession()
		m.terms.CloseAll()
		cmds = append(cmds, tea.Quit)
		return m.finish(cmds...)
	case "@":
		m.mentionAt = len(m.composer.Value())
		cmds = append(cmds, m.loadMention())
		return m.finish(cmds...)
	case "enter":
		if msg.Alt {
			break
		}
		input := strings.TrimSpace(m.composer.Value())
		if input == "" {
			return m.finish(cmds...)
		}
		if strings.HasPrefix(input, "/") {
			cmd := m.handleSlash(input)
			m.composer.Reset()
			m.setComposerHeight()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m.finish(cmds...)
		}
		if m.pending {
			return m.finish(cmds...)
		}
		m.composer.Reset()
		m.setComposerHeight()
		cmds = append(cmds, m.startTurn(input))
		return m.finish(cmds...)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.setComposerHeight()
	cmds = append(cmds, cmd)
	return m.finish(cmds...)
}

func (m *uiModel) handleMentionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mention.close()
		m.mentionAt = -1
		return m.finish()
	case tea.KeyUp:
		m.mention.moveUp()
		return m.finish()
	case tea.KeyDown:
		m.mention.moveDown()
		return m.finish()
	case tea.KeyEnter:
		if path, ok := m.mention.selection(); ok {
			m.insertMention(path)
		}
		m.mention.close()
		m.mentionAt = -1
		return m.finish()
	case tea.KeyBackspace:
		if !m.mention.backspace() {
			m.mention.close()
			m.mentionAt = -1
		}
		return m.finish()
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.mention.typeRune(r)
		}
		return m.finish()
	}
	return m.finish()
}

func (m *uiModel) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.sessions, cmd = m.sessions.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	switch msg.String() {
	case "enter":
		if sel, ok := m.sessions.SelectedItem().(listItem); ok {
			rec, err := session.Load(string(sel))
			if err != nil {
				m.pickingSession = false
				m.err = err
				return m.finish(cmds...)
			}
			m.resumeRecord(rec)
		}
		m.pickingSession = false
		return m.finish(cmds...)
	case "esc", "ctrl+c":
		m.pickingSession = false
		return m.finish(cmds...)
	}
	return m.finish(cmds...)
}

func (m *uiModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.chat.ScrollBy(-m.mouseLines)
		return
	case tea.MouseButtonWheelDown:
		m.chat.ScrollBy(m.mouseLines)
		return
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionRelease {
		return
	}
	// The transcript occupies the top viewHeight rows of the screen;
	// short transcripts are bottom-aligned, so selection rows map into
	// the line window past the top padding.
	row := msg.Y - (m.viewHeight - len(m.visibleSlice()))
	if row < 0 || msg.Y >= m.viewHeight {
		if msg.Action == tea.MouseActionPress {
			m.sel.clear()
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.sel.begin(row, msg.X)
	case tea.MouseActionMotion:
		m.sel.extend(row, msg.X)
	case tea.MouseActionRelease:
		m.sel.finish()
		if text := m.sel.extractText(m.visibleSlice()); text != "" {
			if err := clipboard.WriteAll(text); err != nil {
				m.log.WithField("err", err).Debug("clipboard write failed")
			}
		}
	}
}

func (m *uiModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.composer.SetWidth(width - 2)
	m.recomputeViewHeight()
	m.chat.SetWelcomeLines(welcomeLines(m.modelName, m.workdir, width))
	m.sel.clear()
}

func (m *uiModel) recomputeViewHeight() {
	composerHeight := m.composer.Height()
	statusHeight := 1
	hintHeight := 1
	vh := m.height - composerHeight - statusHeight - hintHeight
	if vh < 3 {
		vh = 3
	}
	m.viewHeight = vh
}

func (m *uiModel) setComposerHeight() {
	lines := strings.Count(m.composer.Value(), "\n") + 1
	if lines > 6 {
		lines = 6
	}
	if m.composer.Height() != lines {
		m.composer.SetHeight(lines)
		m.recomputeViewHeight()
	}
}

func (m *uiModel) composerAtTop() bool {
	return m.composer.Line() == 0
}

func (m *uiModel) composerAtBottom() bool {
	return m.composer.Line() >= m.composer.LineCount()-1
}

// startTurn submits the user input and begins streaming the reply.
func (m *uiModel) startTurn(input string) tea.Cmd {
	m.history = append(m.history, agent.Message{Role: agent.RoleUser, Content: input})
	m.chat.PushUser(input)
	m.chat.BeginAssistantTurn()
	m.pending = true
	m.streamDone = false
	m.turnText.Reset()
	m.err = nil
	if m.sessionID == "" {
		m.sessionID = uuid.NewString()
	}

	prompt := agent.Prompt{
		Model:    m.modelName,
		Messages: append([]agent.Message(nil), m.history...),
		Tools:    agent.DefaultTools(),
	}
	ch := make(chan streamEvent, 32)
	m.streamCh = ch

	go func() {
		err := m.client.Stream(context.Background(), prompt, func(ev agent.StreamEvent) {
			switch ev.Type {
			case agent.StreamEventTextDelta:
				ch <- streamEvent{chunk: ev.Text}
			case agent.StreamEventItem:
				ch <- streamEvent{item: ev.Item}
			case agent.StreamEventCompleted:
				ch <- streamEvent{done: true}
			}
		})
		if err != nil {
			ch <- streamEvent{err: err}
		}
		close(ch)
	}()

	return m.listenStream()
}

func (m *uiModel) listenStream() tea.Cmd {
	ch := m.streamCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		return streamEnvelopeMsg{ev: ev, ok: ok}
	}
}

func (m *uiModel) handleStreamEvent(msg streamEnvelopeMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if !msg.ok {
		m.streamCh = nil
		m.streamDone = true
		m.maybeEndTurn()
		return cmds
	}
	ev := msg.ev
	switch {
	case ev.err != nil:
		m.err = ev.err
		m.chat.PushSystem(fmt.Sprintf("error: %v", ev.err))
		m.streamDone = true
		m.maybeEndTurn()
	case ev.done:
		m.streamDone = true
		m.maybeEndTurn()
		cmds = append(cmds, m.listenStream())
	case ev.chunk != "":
		m.turnText.WriteString(ev.chunk)
		m.chat.AppendAssistantChunk(ev.chunk)
		cmds = append(cmds, m.listenStream())
	case len(ev.item) > 0:
		if cmd := m.handleStreamItem(ev.item); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenStream())
	default:
		cmds = append(cmds, m.listenStream())
	}
	return cmds
}

type functionCallItem struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	CallID    string `json:"call_id"`
}

func (m *uiModel) handleStreamItem(raw json.RawMessage) tea.Cmd {
	var item functionCallItem
	if err := json.Unmarshal(raw, &item); err != nil || item.Type != "function_call" {
		return nil
	}
	if item.Name != "run_command" {
		m.chat.PushSystem(fmt.Sprintf("unsupported tool: %s", item.Name))
		return nil
	}
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal([]byte(item.Arguments), &args); err != nil || strings.TrimSpace(args.Command) == "" {
		m.chat.PushSystem("tool call with empty command ignored")
		return nil
	}
	m.history = append(m.history, agent.Message{
		Role:    agent.RoleAssistant,
		ToolUse: &agent.ToolUse{ID: item.CallID, Name: item.Name, Input: json.RawMessage(item.Arguments)},
	})
	return m.runCommand(args.Command)
}

// runCommand starts a subprocess session, attaches its output to a new
// tool panel, and watches for exit.
func (m *uiModel) runCommand(command string) tea.Cmd {
	sess, err := m.terms.Start(context.Background(), command, m.workdir)
	if err != nil {
		m.chat.PushSystem(fmt.Sprintf("run failed: %v", err))
		return nil
	}
	msgIdx, blockIdx := m.chat.StartToolCall(sess.ID, command)
	if tc := m.chat.Messages()[msgIdx].ToolCallAt(blockIdx); tc != nil {
		tc.SetStatus(transcript.ToolInProgress)
	}
	m.chat.AttachTerminal(sess.ID, sess, msgIdx, blockIdx)
	m.chat.SetStatus(transcript.StatusRunning)
	m.runningTools[sess.ID] = toolRef{msg: msgIdx, block: blockIdx}

	return func() tea.Msg {
		<-sess.Done()
		code := 0
		if c, _ := sess.ExitCode(); c != nil {
			code = *c
		}
		return toolDoneMsg{sessionID: sess.ID, msg: msgIdx, block: blockIdx, exitCode: code}
	}
}

func (m *uiModel) handleToolDone(msg toolDoneMsg) {
	status := transcript.ToolCompleted
	if msg.exitCode != 0 {
		status = transcript.ToolFailed
	}
	m.chat.FinishToolCall(msg.msg, msg.block, status)

	if tc := m.chat.Messages()[msg.msg].ToolCallAt(msg.block); tc != nil {
		m.history = append(m.history, agent.Message{
			Role: agent.RoleUser,
			ToolResult: &agent.ToolResult{
				ToolUseID: msg.sessionID,
				Content:   tc.Output,
				IsError:   msg.exitCode != 0,
			},
		})
	}
	delete(m.runningTools, msg.sessionID)
	m.terms.Remove(msg.sessionID)

	if len(m.runningTools) == 0 {
		switch {
		case !m.pending:
			// Local /run with no model turn in flight.
			m.chat.EndTurn()
		case m.streamDone:
			m.maybeEndTurn()
		default:
			m.chat.SetStatus(transcript.StatusThinking)
		}
	}
	m.log.WithField("session", msg.sessionID).Debugf("tool finished with exit code %d", msg.exitCode)
}

// maybeEndTurn closes the turn once the stream has finished and no tool
// is still running.
func (m *uiModel) maybeEndTurn() {
	if !m.streamDone || len(m.runningTools) > 0 {
		return
	}
	if !m.pending {
		return
	}
	m.pending = false
	if text := m.turnText.String(); strings.TrimSpace(text) != "" {
		m.history = append(m.history, agent.Message{Role: agent.RoleAssistant, Content: text})
	}
	m.chat.EndTurn()
	m.saveSession()
}

func (m *uiModel) saveSession() {
	if len(m.history) == 0 {
		return
	}
	id, err := session.Save(m.sessionID, m.workdir, m.modelName, m.history)
	if err != nil {
		m.log.WithField("err", err).Warn("session save failed")
		return
	}
	m.sessionID = id
}

func (m *uiModel) resumeRecord(rec session.Record) {
	m.history = append([]agent.Message(nil), rec.Messages...)
	m.sessionID = rec.ID
	if rec.Model != "" {
		m.modelName = rec.Model
	}
	m.chat.ReplaceAll(messagesToTranscript(rec.Messages))
	m.chat.SetWelcomeLines(welcomeLines(m.modelName, m.workdir, m.width))
}

func (m *uiModel) loadMention() tea.Cmd {
	root := m.workdir
	if root == "" {
		root = "."
	}
	return func() tea.Msg {
		paths, err := findFiles(root, mentionMaxFiles)
		return mentionFilesMsg{paths: paths, err: err}
	}
}

func (m *uiModel) insertMention(path string) {
	val := m.composer.Value()
	if m.mentionAt >= 0 && m.mentionAt <= len(val) {
		m.composer.SetValue(val[:m.mentionAt] + path + " ")
		return
	}
	m.composer.SetValue(val + path + " ")
}

func (m *uiModel) handleSlash(input string) tea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "/quit", "/exit":
		m.saveSession()
		m.terms.CloseAll()
		return tea.Quit
	case "/clear":
		m.history = nil
		m.sessionID = ""
		m.chat.ReplaceAll(nil)
		m.chat.SetWelcomeLines(welcomeLines(m.modelName, m.workdir, m.width))
		return nil
	case "/help":
		m.chat.PushSystem(strings.Join([]string{
			"/model [name]  switch model",
			"/run <cmd>     run a shell command",
			"/sessions      pick a session to resume",
			"/resume        resume the last session",
			"/copy          copy the transcript",
			"/clear         start over",
			"/quit          exit",
		}, "\n"))
		return nil
	case "/status":
		m.chat.PushSystem(fmt.Sprintf("model=%s dir=%s session=%s status=%s",
			m.modelName, m.workdir, m.sessionID, m.chat.Status()))
		return nil
	case "/model":
		if len(parts) > 1 {
			m.modelName = parts[1]
			m.chat.SetWelcomeLines(welcomeLines(m.modelName, m.workdir, m.width))
		}
		m.chat.PushSystem(fmt.Sprintf("using model %s", m.modelName))
		return nil
	case "/run":
		if len(parts) < 2 {
			m.chat.PushSystem("usage: /run <command>")
			return nil
		}
		command := strings.TrimPrefix(input, "/run ")
		return m.runCommand(command)
	case "/sessions":
		ids, err := session.ListIDs()
		if err != nil {
			m.err = err
			return nil
		}
		items := make([]list.Item, 0, len(ids))
		for _, id := range ids {
			items = append(items, listItem(id))
		}
		m.sessions.SetItems(items)
		m.pickingSession = true
		return nil
	case "/resume":
		rec, err := session.Last()
		if err != nil {
			return func() tea.Msg { return systemNoticeMsg{text: fmt.Sprintf("resume error: %v", err)} }
		}
		m.resumeRecord(rec)
		return nil
	case "/copy":
		if err := clipboard.WriteAll(m.chat.PlainText()); err != nil {
			m.err = err
			return nil
		}
		m.chat.PushSystem("transcript copied")
		return nil
	}
	m.chat.PushSystem(fmt.Sprintf("unknown command: %s", parts[0]))
	return nil
}

// visibleSlice is the window of rendered lines currently on screen.
func (m *uiModel) visibleSlice() []render.Line {
	start := m.localScroll
	if start > len(m.visible) {
		start = len(m.visible)
	}
	end := start + m.viewHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}
	return m.visible[start:end]
}

// chatRows is the chat pane: the visible line window, padded with blank
// rows above so short transcripts sit at the bottom.
func (m *uiModel) chatRows() []string {
	slice := m.visibleSlice()
	var rows []string
	if m.sel.active {
		rows = m.sel.overlaySelection(slice)
	} else {
		rows = render.LinesToStrings(slice)
	}
	if pad := m.viewHeight - len(rows); pad > 0 {
		rows = append(make([]string, pad), rows...)
	}
	return rows
}

func (m *uiModel) View() string {
	chat := strings.Join(m.chatRows(), "\n")

	status := m.statusLine()
	hints := hintStyle.Width(maxInt(20, m.width)).Render(
		"Enter send • Alt+Enter newline • PgUp/PgDn scroll • @ mention • /help")

	content := lipgloss.JoinVertical(lipgloss.Left, chat, m.composer.View(), status, hints)

	if m.mention.open {
		return lipgloss.JoinVertical(lipgloss.Left, content, modalStyle.Render(m.mention.view()))
	}
	if m.pickingSession {
		return lipgloss.JoinVertical(lipgloss.Left, content, modalStyle.Render(m.sessions.View()))
	}
	return content
}

func (m *uiModel) statusLine() string {
	parts := []string{fmt.Sprintf("model %s", m.modelName)}
	if m.workdir != "" {
		parts = append(parts, m.workdir)
	}
	switch m.chat.Status() {
	case transcript.StatusThinking:
		parts = append(parts, spinnerGlyph(0)+" thinking")
	case transcript.StatusRunning:
		parts = append(parts, spinnerGlyph(0)+" running")
	}
	if !m.chat.AutoScroll() {
		parts = append(parts, "scrolled")
	}
	line := statusStyle.Width(maxInt(20, m.width)).Render(strings.Join(parts, " • "))
	if m.err != nil {
		line = errStyle.Width(maxInt(20, m.width)).Render(fmt.Sprintf("error: %v", m.err))
	}
	return line
}

// messagesToTranscript rebuilds transcript messages from persisted
// history, folding tool records into their visual form.
func messagesToTranscript(msgs []agent.Message) []*transcript.Message {
	var out []*transcript.Message
	for _, msg := range msgs {
		switch {
		case msg.ToolUse != nil:
			tm := transcript.NewMessage(transcript.RoleAssistant)
			idx := tm.AppendToolCall(&transcript.ToolCall{
				ID:    msg.ToolUse.ID,
				Title: commandFromInput(msg.ToolUse.Input),
			})
			if tc := tm.ToolCallAt(idx); tc != nil {
				tc.SetStatus(transcript.ToolCompleted)
			}
			out = append(out, tm)
		case msg.ToolResult != nil:
			// Fold the result into the preceding tool panel.
			if n := len(out); n > 0 {
				last := out[n-1]
				if tc := last.ToolCallAt(len(last.Blocks) - 1); tc != nil && tc.ID == msg.ToolResult.ToolUseID {
					tc.Output = msg.ToolResult.Content
					if msg.ToolResult.IsError {
						tc.SetStatus(transcript.ToolFailed)
					}
					continue
				}
			}
		case msg.Role == agent.RoleUser:
			out = append(out, transcript.TextMessage(transcript.RoleUser, msg.Content))
		case msg.Role == agent.RoleSystem:
			out = append(out, transcript.TextMessage(transcript.RoleSystem, msg.Content))
		default:
			out = append(out, transcript.TextMessage(transcript.RoleAssistant, msg.Content))
		}
	}
	return out
}

func commandFromInput(raw json.RawMessage) string {
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(raw, &args); err == nil && args.Command != "" {
		return args.Command
	}
	return "command"
}

type listItem string

func (i listItem) FilterValue() string { return string(i) }
func (i listItem) Title() string       { return string(i) }
func (i listItem) Description() string { return "" }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
