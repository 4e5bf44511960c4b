package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary))

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondary))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	FeaturedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorWarning))

	StarFilledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorStar))

	StarEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	StarHoverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary))

	ToastSuccessStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorSuccess))

	ToastErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorError))

	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite))

	SelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorPrimary))

	LogInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite))

	LogWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning))

	LogErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError))

	LogDebugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorMuted))

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary)).
			Background(lipgloss.Color(ColorBackground)).
			Padding(0, 2)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorMuted)).
				Padding(0, 2)

	TabBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(ColorBorder))
)

// LogLevelStyle returns appropriate style for log level.
func LogLevelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR", "error":
		return LogErrorStyle
	case "WARN", "warn", "WARNING", "warning":
		return LogWarnStyle
	case "DEBUG", "debug":
		return LogDebugStyle
	default:
		return LogInfoStyle
	}
}
