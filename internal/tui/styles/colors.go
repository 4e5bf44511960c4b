package styles

// Colors used throughout the TUI.
const (
	ColorPrimary    = "#ffaf5f"
	ColorSecondary  = "#5fd7ff"
	ColorSuccess    = "#87d787"
	ColorWarning    = "#ffd75f"
	ColorError      = "#ff5f5f"
	ColorStar       = "#ffd700"
	ColorMuted      = "#888888"
	ColorBorder     = "#444444"
	ColorBackground = "#1a1a1a"
	ColorWhite      = "#ffffff"
)
