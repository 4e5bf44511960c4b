package components

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/ladleapp/ladle/internal/tui/styles"
)

// LogViewer tails the session log file inside a scrollable viewport,
// reloading whenever the file changes on disk.
type LogViewer struct {
	logPath       string
	lines         []string
	maxLines      int
	viewport      viewport.Model
	logLevelRegex *regexp.Regexp
	watcher       *fsnotify.Watcher
	done          chan bool
}

// NewLogViewer creates a log viewer with no file attached yet.
func NewLogViewer() *LogViewer {
	return &LogViewer{
		maxLines:      1000,
		viewport:      viewport.New(80, 24),
		logLevelRegex: regexp.MustCompile(`(?i)(ERROR|WARN|INFO|DEBUG)`),
		done:          make(chan bool),
	}
}

// SetLogPath switches the viewer to a new file and starts watching it.
func (lv *LogViewer) SetLogPath(path string) {
	lv.StopWatching()

	lv.logPath = path
	lv.load()

	if path != "" {
		lv.StartWatching()
	}
}

// StartWatching begins watching the current log file for writes.
func (lv *LogViewer) StartWatching() {
	if lv.logPath == "" || lv.watcher != nil {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}

	if err := watcher.Add(lv.logPath); err != nil {
		watcher.Close()
		return
	}

	lv.watcher = watcher

	go func() {
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Has(fsnotify.Write) {
					lv.load()
				}

			case <-watcher.Errors:
				// Ignore watcher errors

			case <-lv.done:
				return
			}
		}
	}()
}

// StopWatching stops watching the current log file.
func (lv *LogViewer) StopWatching() {
	if lv.watcher != nil {
		close(lv.done)
		lv.watcher.Close()
		lv.watcher = nil
		lv.done = make(chan bool)
	}
}

// SetSize resizes the viewport.
func (lv *LogViewer) SetSize(width, height int) {
	lv.viewport.Width = width
	lv.viewport.Height = height

	if height > 0 {
		lv.maxLines = max(height*10, 100)
	}
}

// Update handles scrolling keys.
func (lv *LogViewer) Update(msg tea.Msg) (*LogViewer, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			lv.viewport.LineUp(1)
		case "down", "j":
			lv.viewport.LineDown(1)
		case "pgup", "ctrl+u":
			lv.viewport.HalfViewUp()
		case "pgdown", "ctrl+d":
			lv.viewport.HalfViewDown()
		case "home":
			lv.viewport.GotoTop()
		case "end":
			lv.viewport.GotoBottom()
		}
	}

	lv.viewport, cmd = lv.viewport.Update(msg)

	return lv, cmd
}

// Refresh reloads the log content from disk.
func (lv *LogViewer) Refresh() {
	lv.load()
}

// View renders the log viewer.
func (lv *LogViewer) View() string {
	if lv.logPath == "" {
		return styles.MutedStyle.Render("No log file selected")
	}

	header := styles.SubtitleStyle.Bold(true).Render(filepath.Base(lv.logPath))

	content := strings.Join(lv.lines, "\n")
	if content == "" {
		content = "Waiting for logs..."
	}

	lv.viewport.SetContent(content)
	lv.viewport.GotoBottom()

	return lipgloss.JoinVertical(lipgloss.Left, header, "", lv.viewport.View())
}

// load reads the file and keeps the last maxLines styled lines.
func (lv *LogViewer) load() {
	if lv.logPath == "" {
		return
	}

	content, err := os.ReadFile(lv.logPath)
	if err != nil {
		lv.lines = nil
		return
	}

	raw := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	formatted := make([]string, 0, len(raw))
	for _, line := range raw {
		if line == "" {
			continue
		}

		if matches := lv.logLevelRegex.FindStringSubmatch(line); len(matches) > 0 {
			line = styles.LogLevelStyle(strings.ToUpper(matches[1])).Render(line)
		}

		formatted = append(formatted, line)
	}

	if len(formatted) > lv.maxLines {
		formatted = formatted[len(formatted)-lv.maxLines:]
	}

	lv.lines = formatted
}
