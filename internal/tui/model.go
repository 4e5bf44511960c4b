package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ladleapp/ladle/internal/api"
	"github.com/ladleapp/ladle/internal/challenges"
	"github.com/ladleapp/ladle/internal/notify"
	"github.com/ladleapp/ladle/internal/tips"
	"github.com/ladleapp/ladle/internal/tui/components"
	"github.com/ladleapp/ladle/internal/tui/views"
)

// RefreshInterval is how often visible data and toasts are refreshed.
const RefreshInterval = 2 * time.Second

// ViewType represents different TUI views.
type ViewType int

const (
	TipsView ViewType = iota
	ChallengesView
	LogsView
	HelpView
)

// Tip list tabs in display order.
var tipTabs = []string{"All", "Mine", "Featured", "Storage", "Prep", "Substitutes"}

// TickMsg is sent every refresh interval.
type TickMsg struct{}

// tipsLoadedMsg carries a freshly loaded tip list.
type tipsLoadedMsg struct {
	rows      []views.TipRow
	mostRated *api.Tip
	tipOfDay  *api.Tip
}

// challengesLoadedMsg carries a freshly loaded challenge list.
type challengesLoadedMsg struct {
	list []*api.Challenge
}

// leaderboardMsg carries the resolved leaderboard of one challenge. The
// challenge id lets the model drop a slow response that arrives after the
// selection moved on.
type leaderboardMsg struct {
	challengeID string
	entries     []challenges.Entry
}

// opDoneMsg reports the outcome of a mutation.
type opDoneMsg struct {
	success string
	err     error
	reload  bool
}

// KeyMap defines key bindings for the TUI.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Tips       key.Binding
	Challenges key.Binding
	Logs       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Reload     key.Binding
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Tips: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tips"),
		),
		Challenges: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "challenges"),
		),
		Logs: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "logs"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next list"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev list"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// Model is the main TUI model. Controllers own all remote state; the model
// only turns their results into rows and key presses into commands.
type Model struct {
	ctx         context.Context
	currentView ViewType
	width       int
	height      int

	tipsCtl *tips.Controller
	chCtl   *challenges.Controller
	center  *notify.Center

	tipsView *views.Tips
	chView   *views.Challenges
	helpView *views.Help

	tabs      *components.Tabs
	toasts    *components.Toasts
	logViewer *components.LogViewer

	deleteFlow *challenges.DeleteFlow
	chScope    challenges.Scope
	keys       KeyMap
	quitting   bool
}

// NewModel creates the main TUI model.
func NewModel(ctx context.Context, tipsCtl *tips.Controller, chCtl *challenges.Controller, center *notify.Center, logPath string) *Model {
	m := &Model{
		ctx:         ctx,
		currentView: TipsView,
		width:       80,
		height:      24,
		tipsCtl:     tipsCtl,
		chCtl:       chCtl,
		center:      center,
		tipsView:    views.NewTips(),
		chView:      views.NewChallenges(),
		helpView:    views.NewHelp(),
		tabs:        components.NewTabs(tipTabs),
		toasts:      components.NewToasts(center),
		logViewer:   components.NewLogViewer(),
		chScope:     challenges.ScopeAllActive,
		keys:        DefaultKeyMap(),
	}

	m.chView.SetScopeLabel(scopeLabel(m.chScope))

	m.logViewer.SetLogPath(logPath)

	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.tipsView.SetLoading()
	m.chView.SetLoading()

	return tea.Batch(
		m.loadTipsCmd(),
		m.loadChallengesCmd(),
		tea.Tick(RefreshInterval, func(time.Time) tea.Msg {
			return TickMsg{}
		}),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.currentView == LogsView {
			m.logViewer.Refresh()
		}

		return m, tea.Tick(RefreshInterval, func(time.Time) tea.Msg {
			return TickMsg{}
		})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := max(m.height-6, 5)
		m.tipsView.SetSize(m.width, contentHeight)
		m.chView.SetSize(m.width, contentHeight)
		m.helpView.SetSize(m.width, contentHeight)
		m.logViewer.SetSize(m.width, contentHeight)
		m.tabs.SetWidth(m.width)

		return m, nil

	case tipsLoadedMsg:
		m.tipsView.SetRows(msg.rows)
		m.tipsView.SetHighlights(msg.mostRated, msg.tipOfDay)

		return m, nil

	case challengesLoadedMsg:
		m.chView.SetChallenges(msg.list)

		return m, nil

	case leaderboardMsg:
		if selected := m.chView.Selected(); selected == nil || selected.ID != msg.challengeID {
			return m, nil
		}

		m.chView.SetLeaderboard(msg.entries)

		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.center.Error(msg.err.Error())
			return m, nil
		}

		if msg.success != "" {
			m.center.Success(msg.success)
		}
		if msg.reload {
			return m, tea.Batch(m.reloadCmds()...)
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.logViewer.StopWatching()

		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.currentView = HelpView
		return m, nil

	case key.Matches(msg, m.keys.Tips):
		m.currentView = TipsView
		return m, nil

	case key.Matches(msg, m.keys.Challenges):
		m.currentView = ChallengesView
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.currentView = LogsView
		m.logViewer.Refresh()

		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.tipsView.SetLoading()
		m.chView.SetLoading()

		return m, tea.Batch(m.loadTipsCmd(), m.loadChallengesCmd())
	}

	switch m.currentView {
	case TipsView:
		return m.handleTipsKey(msg)
	case ChallengesView:
		return m.handleChallengesKey(msg)
	case LogsView:
		var cmd tea.Cmd
		m.logViewer, cmd = m.logViewer.Update(msg)

		return m, cmd
	case HelpView:
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleTipsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stars := m.tipsView.Stars()

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
		m.tipsView.SetLoading()

		return m, m.loadTipsCmd()

	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
		m.tipsView.SetLoading()

		return m, m.loadTipsCmd()
	}

	switch msg.String() {
	case "up", "k":
		m.tipsView.MoveUp()
	case "down", "j":
		m.tipsView.MoveDown()
	case "left":
		stars.MoveLeft()
	case "right":
		stars.MoveRight()
	case "esc":
		stars.Leave()
	case "enter":
		if hover := stars.Hover(); hover > 0 {
			stars.Leave()
			return m, m.rateCmd(hover)
		}
	case "1", "2", "3", "4", "5":
		value, _ := strconv.Atoi(msg.String())
		return m, m.rateCmd(value)
	}

	m.refreshTipRows()

	return m, nil
}

func (m *Model) handleChallengesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		m.chView.MoveUp()
	case "down":
		m.chView.MoveDown()
	case "k":
		m.chView.PrevEntry()
	case "j":
		m.chView.NextEntry()
	case "enter":
		if selected := m.chView.Selected(); selected != nil {
			return m, m.loadLeaderboardCmd(selected)
		}
	case "v":
		return m, m.voteCmd()
	case "s":
		m.chScope = nextScope(m.chScope)
		m.chView.SetScopeLabel(scopeLabel(m.chScope))
		m.chView.SetLoading()

		return m, m.loadChallengesCmd()
	case "d":
		if selected := m.chView.Selected(); selected != nil {
			m.deleteFlow = m.chCtl.StartDelete(selected.ID)
			m.deleteFlow.Request()
			m.chView.SetDeletePending(true)
		}
	case "y":
		if m.deleteFlow != nil && m.deleteFlow.Pending() {
			flow := m.deleteFlow
			m.deleteFlow = nil
			m.chView.SetDeletePending(false)

			return m, m.confirmDeleteCmd(flow)
		}
	case "n", "esc":
		if m.deleteFlow != nil {
			m.deleteFlow.Cancel()
			m.deleteFlow = nil
			m.chView.SetDeletePending(false)
		}
	}

	return m, nil
}

// View renders the complete TUI.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch m.currentView {
	case TipsView:
		content = lipgloss.JoinVertical(lipgloss.Left, m.tabs.View(), "", m.tipsView.View())
	case ChallengesView:
		content = m.chView.View()
	case LogsView:
		content = m.logViewer.View()
	case HelpView:
		content = m.helpView.View()
	}

	sections := []string{content}
	if toasts := m.toasts.View(); toasts != "" {
		sections = append(sections, "", toasts)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshTipRows recomputes the displayed star values from current hover
// and committed state without refetching anything.
func (m *Model) refreshTipRows() {
	var source []*api.Tip
	if m.tabs.Active() == 1 {
		source = m.tipsCtl.FilterMine("", "")
	} else {
		source = m.tipsCtl.Tips()
	}

	m.tipsView.SetRows(m.buildRows(source))
}

func (m *Model) buildRows(source []*api.Tip) []views.TipRow {
	selected := m.tipsView.Selected()
	hover := m.tipsView.Stars().Hover()

	rows := make([]views.TipRow, len(source))
	for i, tip := range source {
		rowHover := 0
		if selected != nil && tip.ID == selected.ID {
			rowHover = hover
		}

		rows[i] = views.TipRow{
			Tip:     tip,
			Display: m.tipsCtl.DisplayRating(tip, rowHover),
			Mine:    m.tabs.Active() == 1,
		}
	}

	return rows
}

func (m *Model) loadTipsCmd() tea.Cmd {
	tab := m.tabs.Active()

	return func() tea.Msg {
		var err error
		switch tab {
		case 1:
			err = m.tipsCtl.Load(m.ctx, tips.ViewMine)
		case 2:
			err = m.tipsCtl.Featured(m.ctx)
		case 3, 4, 5:
			err = m.tipsCtl.ByCategory(m.ctx, api.Categories[tab-3])
		default:
			err = m.tipsCtl.Load(m.ctx, tips.ViewAll)
		}
		if err != nil {
			return opDoneMsg{err: err}
		}

		msg := tipsLoadedMsg{
			rows:      m.buildRows(m.tipsCtl.Tips()),
			mostRated: m.tipsCtl.MostRated(),
		}

		// The tip of the day is decoration; losing it is not an error.
		if tab == 0 {
			if tip, err := m.tipsCtl.TipOfTheDay(m.ctx); err == nil {
				msg.tipOfDay = tip
			}
		}

		return msg
	}
}

func (m *Model) loadChallengesCmd() tea.Cmd {
	scope := m.chScope

	return func() tea.Msg {
		if err := m.chCtl.Load(m.ctx, scope); err != nil {
			return opDoneMsg{err: err}
		}

		return challengesLoadedMsg{list: m.chCtl.Challenges()}
	}
}

// reloadCmds refreshes everything currently on screen after a mutation,
// including the open leaderboard so tallies and vote markers come from the
// service rather than lingering pre-mutation.
func (m *Model) reloadCmds() []tea.Cmd {
	cmds := []tea.Cmd{m.loadTipsCmd(), m.loadChallengesCmd()}

	if selected := m.chView.Selected(); selected != nil && m.chView.LeaderboardOpen() {
		cmds = append(cmds, m.loadLeaderboardCmd(selected))
	}

	return cmds
}

func (m *Model) loadLeaderboardCmd(challenge *api.Challenge) tea.Cmd {
	return func() tea.Msg {
		entries, err := m.chCtl.Leaderboard(m.ctx, challenge)
		if err != nil {
			return opDoneMsg{err: err}
		}

		return leaderboardMsg{challengeID: challenge.ID, entries: entries}
	}
}

func (m *Model) rateCmd(value int) tea.Cmd {
	selected := m.tipsView.Selected()
	if selected == nil {
		return nil
	}

	return func() tea.Msg {
		if err := m.tipsCtl.SubmitRating(m.ctx, selected.ID, value); err != nil {
			return opDoneMsg{err: err}
		}

		return opDoneMsg{success: "Rating saved", reload: true}
	}
}

func (m *Model) voteCmd() tea.Cmd {
	selected := m.chView.Selected()
	entry := m.chView.SelectedEntry()
	if selected == nil || entry == nil {
		return nil
	}

	return func() tea.Msg {
		if err := m.chCtl.CastVote(m.ctx, selected, entry.Submission.RecipeID); err != nil {
			return opDoneMsg{err: err}
		}

		return opDoneMsg{success: "Vote counted", reload: true}
	}
}

// nextScope cycles through the challenge list scopes.
func nextScope(scope challenges.Scope) challenges.Scope {
	switch scope {
	case challenges.ScopeAllActive:
		return challenges.ScopeMineActive
	case challenges.ScopeMineActive:
		return challenges.ScopeMinePast
	default:
		return challenges.ScopeAllActive
	}
}

func scopeLabel(scope challenges.Scope) string {
	switch scope {
	case challenges.ScopeMineActive:
		return "My active"
	case challenges.ScopeMinePast:
		return "My past"
	default:
		return "All active"
	}
}

func (m *Model) confirmDeleteCmd(flow *challenges.DeleteFlow) tea.Cmd {
	return func() tea.Msg {
		if err := m.chCtl.ConfirmDelete(m.ctx, flow); err != nil {
			return opDoneMsg{err: err}
		}

		return opDoneMsg{success: "Challenge deleted", reload: true}
	}
}
