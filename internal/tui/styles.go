package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentColor = lipgloss.Color("#7D56F4")
	dimColor    = lipgloss.Color("#7D7A85")
	errColor    = lipgloss.Color("#E06C75")
	okColor     = lipgloss.Color("#98C379")

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	systemLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(dimColor)

	userTextStyle      = lipgloss.NewStyle()
	assistantTextStyle = lipgloss.NewStyle()
	systemTextStyle    = lipgloss.NewStyle().Foreground(dimColor)

	toolTitleStyle  = lipgloss.NewStyle().Bold(true)
	toolOutputStyle = lipgloss.NewStyle().Foreground(dimColor)
	toolFailStyle   = lipgloss.NewStyle().Foreground(errColor)
	toolOkStyle     = lipgloss.NewStyle().Foreground(okColor)

	thinkingStyle = lipgloss.NewStyle().Foreground(accentColor)
	welcomeStyle  = lipgloss.NewStyle().Foreground(dimColor)
	bannerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	selectionStyle = lipgloss.NewStyle().Reverse(true)

	statusStyle = lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(errColor).Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("#FFB454"))
)

// spinnerFrames drive the thinking and running indicators; the frame
// index comes from the transcript's per-frame counter.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerGlyph(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}
