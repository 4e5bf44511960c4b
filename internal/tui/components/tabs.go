package components

import (
	"strings"

	"github.com/ladleapp/ladle/internal/tui/styles"
	"github.com/ladleapp/ladle/pkg/utils"
)

// Tabs is the fixed tab bar above the tip list. The tab set never changes
// after construction; only the active index and the available width do.
type Tabs struct {
	names  []string
	active int
	width  int
}

// NewTabs creates a tab bar with the given names.
func NewTabs(names []string) *Tabs {
	return &Tabs{names: names}
}

// Active returns the active tab index.
func (t *Tabs) Active() int {
	return t.active
}

// Next activates the tab to the right, wrapping around.
func (t *Tabs) Next() {
	t.active = (t.active + 1) % len(t.names)
}

// Prev activates the tab to the left, wrapping around.
func (t *Tabs) Prev() {
	t.active = (t.active - 1 + len(t.names)) % len(t.names)
}

// SetWidth sets the total width available for the bar.
func (t *Tabs) SetWidth(width int) {
	t.width = width
}

// View renders the tab bar with the active tab highlighted.
func (t *Tabs) View() string {
	perTab := 20
	if t.width > 0 {
		perTab = max(8, (t.width-4)/len(t.names))
	}

	rendered := make([]string, len(t.names))
	for i, name := range t.names {
		label := utils.Truncate(name, perTab-4)

		if i == t.active {
			rendered[i] = styles.TabActiveStyle.Render(label)
		} else {
			rendered[i] = styles.TabInactiveStyle.Render(label)
		}
	}

	return styles.TabBarStyle.Width(t.width - 2).Render(strings.Join(rendered, "│"))
}
