package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"glyph-cli/internal/agent"
)

// Result carries the final UI state back to the caller.
type Result struct {
	History   []agent.Message
	SessionID string
}

// Run wraps the Bubble Tea entry point.
func Run(opts Options) (Result, error) {
	program := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	m, ok := final.(*uiModel)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{
		History:   append([]agent.Message(nil), m.history...),
		SessionID: m.sessionID,
	}, nil
}
