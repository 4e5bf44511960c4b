package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ladleapp/ladle/internal/tui/styles"
)

// Help represents the help view.
type Help struct {
	width    int
	height   int
	viewport viewport.Model
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	vp := viewport.New(80, 24)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.ColorBorder)).
		Padding(1, 2)

	return &Help{viewport: vp}
}

// SetSize sets the help view size.
func (h *Help) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.viewport.Width = width - 4
	h.viewport.Height = height - 4
}

// Update handles messages for the help view.
func (h *Help) Update(msg tea.Msg) (*Help, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			h.viewport.LineUp(1)
		case "down", "j":
			h.viewport.LineDown(1)
		case "pgup", "ctrl+u":
			h.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			h.viewport.HalfViewDown()
		}
	}

	h.viewport, cmd = h.viewport.Update(msg)

	return h, cmd
}

// View renders the help view.
func (h *Help) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorSecondary)).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorPrimary)).
		MarginTop(1).
		MarginBottom(1)

	keyStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(styles.ColorWarning)).
		Width(15)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.ColorWhite))

	content := make([]string, 0, 40)
	content = append(content, titleStyle.Render("🥄 Ladle - Help"), "")

	render := func(section string, items [][]string) {
		content = append(content, sectionStyle.Render(section))
		for _, item := range items {
			content = append(content, lipgloss.JoinHorizontal(lipgloss.Left,
				keyStyle.Render(item[0]),
				descStyle.Render(item[1])))
		}
		content = append(content, "")
	}

	render("📍 Navigation", [][]string{
		{"t", "Tips view"},
		{"c", "Challenges view"},
		{"g", "Session logs"},
		{"?", "Show this help screen"},
		{"q", "Quit"},
	})

	render("⭐ Tips", [][]string{
		{"Tab/Shift+Tab", "Cycle list (all, mine, featured, categories)"},
		{"↑/↓", "Move between tips"},
		{"←/→", "Preview a star rating"},
		{"Enter", "Commit the previewed rating"},
		{"1-5", "Rate the selected tip directly"},
		{"Esc", "Clear the star preview"},
		{"r", "Reload from the service"},
	})

	render("🏆 Challenges", [][]string{
		{"↑/↓", "Move between challenges"},
		{"j/k", "Move through the leaderboard"},
		{"Enter", "Load the selected leaderboard"},
		{"s", "Switch list scope (all active, my active, my past)"},
		{"v", "Vote for the selected submission"},
		{"d", "Request deletion of your challenge"},
		{"y / n", "Confirm or cancel the deletion"},
	})

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(styles.ColorMuted)).
		MarginTop(2)
	content = append(content, footerStyle.Render("Press any navigation key to exit help"))

	h.viewport.SetContent(strings.Join(content, "\n"))

	return h.viewport.View()
}
