package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/ladleapp/ladle/internal/tui/styles"
	"github.com/ladleapp/ladle/pkg/utils"
)

// Challenges renders the challenge list with the selected challenge's
// leaderboard alongside it.
type Challenges struct {
	width  int
	height int

	list           []*api.Challenge
	cursor         int
	entries        []challenges.Entry
	leaderboardSet bool
	entryCursor    int
	scopeLabel     string
	deletePending  bool
	loading        bool
}

// NewChallenges creates the challenges view.
func NewChallenges() *Challenges {
	return &Challenges{width: 80, height: 24}
}

// SetSize sets the view size.
func (c *Challenges) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// SetChallenges replaces the challenge list and clamps the cursor.
func (c *Challenges) SetChallenges(list []*api.Challenge) {
	c.list = list
	c.loading = false

	if c.cursor >= len(list) {
		c.cursor = max(len(list)-1, 0)
	}
}

// SetLeaderboard replaces the leaderboard entries for the selected challenge.
func (c *Challenges) SetLeaderboard(entries []challenges.Entry) {
	c.entries = entries
	c.leaderboardSet = true

	if c.entryCursor >= len(entries) {
		c.entryCursor = max(len(entries)-1, 0)
	}
}

// LeaderboardOpen reports whether a leaderboard is currently displayed for
// the selected challenge.
func (c *Challenges) LeaderboardOpen() bool {
	return c.leaderboardSet
}

// SetScopeLabel sets the list scope shown in the header.
func (c *Challenges) SetScopeLabel(label string) {
	c.scopeLabel = label
}

// SetLoading marks the view as waiting for data.
func (c *Challenges) SetLoading() {
	c.loading = true
}

// SetDeletePending toggles the delete confirmation prompt.
func (c *Challenges) SetDeletePending(pending bool) {
	c.deletePending = pending
}

// Selected returns the challenge under the cursor, or nil.
func (c *Challenges) Selected() *api.Challenge {
	if c.cursor >= len(c.list) {
		return nil
	}

	return c.list[c.cursor]
}

// SelectedEntry returns the leaderboard entry under the cursor, or nil.
func (c *Challenges) SelectedEntry() *challenges.Entry {
	if c.entryCursor >= len(c.entries) {
		return nil
	}

	return &c.entries[c.entryCursor]
}

// MoveUp moves the challenge cursor up.
func (c *Challenges) MoveUp() {
	if c.cursor > 0 {
		c.cursor--
		c.entries = nil
		c.leaderboardSet = false
		c.entryCursor = 0
	}
}

// MoveDown moves the challenge cursor down.
func (c *Challenges) MoveDown() {
	if c.cursor < len(c.list)-1 {
		c.cursor++
		c.entries = nil
		c.leaderboardSet = false
		c.entryCursor = 0
	}
}

// NextEntry moves the leaderboard cursor down.
func (c *Challenges) NextEntry() {
	if c.entryCursor < len(c.entries)-1 {
		c.entryCursor++
	}
}

// PrevEntry moves the leaderboard cursor up.
func (c *Challenges) PrevEntry() {
	if c.entryCursor > 0 {
		c.entryCursor--
	}
}

// View renders the challenges view.
func (c *Challenges) View() string {
	header := ""
	if c.scopeLabel != "" {
		header = styles.SubtitleStyle.Render(c.scopeLabel+" challenges") +
			styles.MutedStyle.Render("  (s to switch)")
	}

	if c.loading {
		return styles.MutedStyle.Render("Loading challenges...")
	}

	if len(c.list) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.MutedStyle.Render("No challenges to show."))
	}

	now := time.Now()
	left := make([]string, 0, len(c.list)+3)
	if header != "" {
		left = append(left, header, "")
	}

	for i, challenge := range c.list {
		status := styles.MutedStyle.Render("ended")
		if challenge.Active(now) {
			status = styles.SubtitleStyle.Render(fmt.Sprintf("ends %s", challenge.EndDate.Format("Jan 2")))
		}

		line := fmt.Sprintf("%-30s %s", utils.Truncate(challenge.Title, 30), status)
		if i == c.cursor {
			line = styles.SelectedRowStyle.Render("> ") + line
		} else {
			line = "  " + line
		}

		left = append(left, line)
	}

	if c.deletePending {
		left = append(left, "", styles.ToastErrorStyle.Render("Delete this challenge? (y/n)"))
	}

	right := c.leaderboardPanel()

	return lipgloss.NewStyle().MaxHeight(c.height).Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(c.width/2).Render(strings.Join(left, "\n")),
			right))
}

func (c *Challenges) leaderboardPanel() string {
	selected := c.Selected()
	if selected == nil {
		return ""
	}

	lines := []string{styles.TitleStyle.Render(utils.Truncate(selected.Title, c.width/2-4))}
	if selected.Theme != "" {
		lines = append(lines, styles.MutedStyle.Render(selected.Theme))
	}
	lines = append(lines, "")

	if len(c.entries) == 0 {
		lines = append(lines, styles.MutedStyle.Render("No submissions yet."))
		return strings.Join(lines, "\n")
	}

	for i, entry := range c.entries {
		marker := "  "
		if i == c.entryCursor {
			marker = styles.SelectedRowStyle.Render("> ")
		}

		vote := ""
		if entry.CanVote {
			vote = styles.SubtitleStyle.Render(" [v to vote]")
		}

		lines = append(lines, fmt.Sprintf("%s%2d. %-25s %3d votes%s",
			marker, i+1, utils.Truncate(entry.RecipeTitle, 25), entry.Submission.Votes, vote))
	}

	return strings.Join(lines, "\n")
}
