package playground

import "github.com/charmbracelet/lipgloss"

var (
	textMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}
	borderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	borderFocusColor   = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#54A0FF"}
	statusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	statusWarningColor = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#FECA57"}
	statusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	selectionBgColor   = lipgloss.AdaptiveColor{Light: "#BBD6F0", Dark: "#264F78"}

	gutterStyle    = lipgloss.NewStyle().Foreground(textMutedColor)
	selectionStyle = lipgloss.NewStyle().Background(selectionBgColor)
	cursorStyle    = lipgloss.NewStyle().Reverse(true)

	statusBarStyle  = lipgloss.NewStyle().Foreground(textMutedColor)
	statusInfoStyle = lipgloss.NewStyle().Foreground(statusSuccessColor)
	statusWarnStyle = lipgloss.NewStyle().Foreground(statusWarningColor)
	statusErrStyle  = lipgloss.NewStyle().Foreground(statusErrorColor).Bold(true)
	contextStyle    = lipgloss.NewStyle().Foreground(borderFocusColor)
)
