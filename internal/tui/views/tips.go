package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/tui/components"
	"github.com/ladleapp/ladle/internal/tui/styles"
	"github.com/ladleapp/ladle/pkg/utils"
)

// TipRow is one rendered tip with its resolved star value.
type TipRow struct {
	Tip     *api.Tip
	Display int
	Mine    bool
}

// Tips renders the tip list with star ratings, the most-rated pick, and the
// tip of the day.
type Tips struct {
	width  int
	height int

	rows      []TipRow
	cursor    int
	mostRated *api.Tip
	tipOfDay  *api.Tip
	stars     *components.Stars
	loading   bool
}

// NewTips creates the tips view.
func NewTips() *Tips {
	return &Tips{
		width:  80,
		height: 24,
		stars:  components.NewStars(),
	}
}

// SetSize sets the view size.
func (t *Tips) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// SetRows replaces the rendered rows and clamps the cursor.
func (t *Tips) SetRows(rows []TipRow) {
	t.rows = rows
	t.loading = false

	if t.cursor >= len(rows) {
		t.cursor = max(len(rows)-1, 0)
	}
}

// SetHighlights sets the most-rated tip and the tip of the day.
func (t *Tips) SetHighlights(mostRated, tipOfDay *api.Tip) {
	t.mostRated = mostRated
	t.tipOfDay = tipOfDay
}

// SetLoading marks the view as waiting for data.
func (t *Tips) SetLoading() {
	t.loading = true
}

// Selected returns the tip under the cursor, or nil.
func (t *Tips) Selected() *api.Tip {
	if t.cursor >= len(t.rows) {
		return nil
	}

	return t.rows[t.cursor].Tip
}

// Stars exposes the star control for the selected row.
func (t *Tips) Stars() *components.Stars {
	return t.stars
}

// MoveUp moves the cursor up and clears any star preview.
func (t *Tips) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.stars.Leave()
}

// MoveDown moves the cursor down and clears any star preview.
func (t *Tips) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
	t.stars.Leave()
}

// View renders the tips view.
func (t *Tips) View() string {
	if t.loading {
		return styles.MutedStyle.Render("Loading tips...")
	}

	sections := make([]string, 0, len(t.rows)+4)

	if t.tipOfDay != nil {
		sections = append(sections, styles.SubtitleStyle.Render("Tip of the day: ")+
			utils.Truncate(t.tipOfDay.Title, t.width-18))
	}

	if t.mostRated != nil {
		sections = append(sections, styles.SubtitleStyle.Render("Most rated: ")+
			fmt.Sprintf("%s (%d ratings)", utils.Truncate(t.mostRated.Title, t.width-30), t.mostRated.RatingCount))
	}

	if len(sections) > 0 {
		sections = append(sections, "")
	}

	if len(t.rows) == 0 {
		sections = append(sections, styles.MutedStyle.Render("No tips to show."))
		return strings.Join(sections, "\n")
	}

	titleWidth := max(t.width-40, 20)

	for i, row := range t.rows {
		display := row.Display
		hovering := i == t.cursor && t.stars.Hover() > 0

		line := fmt.Sprintf("%s  %-12s %s",
			t.stars.View(display, hovering),
			row.Tip.Category,
			utils.Truncate(row.Tip.Title, titleWidth))

		if row.Tip.Featured {
			line += " " + styles.FeaturedStyle.Render("◆")
		}
		if row.Mine {
			line += " " + styles.MutedStyle.Render("(mine)")
		}

		if i == t.cursor {
			line = styles.SelectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}

		sections = append(sections, line)
	}

	if selected := t.Selected(); selected != nil {
		sections = append(sections, "", styles.MutedStyle.Render(
			utils.Truncate(utils.CompressAllWhitespace(selected.Description), t.width-4)))
		sections = append(sections, styles.MutedStyle.Render(fmt.Sprintf(
			"by %s · avg %.1f · %d ratings", selected.UserDisplayName, selected.AverageRating, selected.RatingCount)))
	}

	return lipgloss.NewStyle().MaxHeight(t.height).Render(strings.Join(sections, "\n"))
}
