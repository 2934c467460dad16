package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CloudTigerx/BladeFighters-sub000/internal/registry"
	"github.com/CloudTigerx/BladeFighters-sub000/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // minimum width to show the pane sidebar
	sidebarWidth       = 20  // width of the pane sidebar
	maxScores          = 100 // max score rows to load
	maxMatches         = 50  // max battle rows to load
)

// onlineBattlesPane is the sidebar entry showing recorded online battles
// next to the per-mode score panes.
const onlineBattlesPane = "Online Battles"

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextPane key.Binding
	PrevPane key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPane, k.PrevPane, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPane, k.PrevPane},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev pane"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next pane"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev pane"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows one pane per game mode plus the online battle log.
type ScoreboardModel struct {
	panes       []string // pane titles; all but the last map to game modes
	modeIDs     []string // registry IDs aligned with panes (empty for battles)
	cursor      int
	store       *storage.Store
	table       table.Model
	rowCount    int
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var panes []string
	var modeIDs []string
	// Local-versus matches share tuning with the main battle; fold their
	// variant IDs out of the picker for a cleaner display.
	for _, g := range registry.List() {
		if strings.HasSuffix(g.ID, "_local") {
			continue
		}
		panes = append(panes, g.Title)
		modeIDs = append(modeIDs, g.ID)
	}
	panes = append(panes, onlineBattlesPane)
	modeIDs = append(modeIDs, "")

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		panes:       panes,
		modeIDs:     modeIDs,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.reloadPane()
	return m
}

// battlesPane reports whether the cursor sits on the online battle log.
func (m *ScoreboardModel) battlesPane() bool {
	return m.modeIDs[m.cursor] == ""
}

// reloadPane rebuilds the table for the pane under the cursor.
func (m *ScoreboardModel) reloadPane() {
	if m.battlesPane() {
		m.table = m.newTable(
			table.Column{Title: "Players", Width: 24},
			table.Column{Title: "Score", Width: 9},
			table.Column{Title: "Result", Width: 14},
			table.Column{Title: "Date", Width: 12},
		)
		m.setMatchRows()
		return
	}
	m.table = m.newTable(
		table.Column{Title: "Rank", Width: 6},
		table.Column{Title: "Score", Width: 12},
		table.Column{Title: "Date", Width: 18},
	)
	m.setScoreRows(m.modeIDs[m.cursor])
}

func (m *ScoreboardModel) newTable(columns ...table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-8), // room for header, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func (m *ScoreboardModel) setScoreRows(gameID string) {
	var scores []storage.ScoreEntry
	if m.store != nil {
		scores, _ = m.store.TopScores(gameID, maxScores)
	}

	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.rowCount = len(rows)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) setMatchRows() {
	var matches []storage.OnlineMatchResult
	if m.store != nil {
		matches, _ = m.store.RecentOnlineMatches(maxMatches)
	}

	rows := make([]table.Row, len(matches))
	for i, mr := range matches {
		result := "Draw"
		switch mr.WinnerSession {
		case mr.Player1Session:
			result = "P1 wins"
		case mr.Player2Session:
			result = "P2 wins"
		case "":
			if mr.EndReason != "" && mr.EndReason != "Match completed" {
				result = mr.EndReason
			}
		}
		rows[i] = table.Row{
			fmt.Sprintf("%s vs %s", shorten(mr.Player1Session, 10), shorten(mr.Player2Session, 10)),
			fmt.Sprintf("%d - %d", mr.Score1, mr.Score2),
			result,
			mr.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.rowCount = len(rows)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// shorten trims a session name to fit a table cell. Session IDs carry a
// timestamp suffix after the username; cut at the first dash when possible.
func shorten(name string, max int) string {
	if i := strings.IndexByte(name, '-'); i > 0 && i <= max {
		return name[:i]
	}
	if len(name) > max {
		return name[:max-1] + "."
	}
	return name
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPane), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(m.panes)
			m.reloadPane()
			return m, nil

		case key.Matches(msg, m.keys.PrevPane), key.Matches(msg, m.keys.Left):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.panes) - 1
			}
			m.reloadPane()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.reloadPane()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("RECORDS - %s", m.panes[m.cursor])
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout shows the pane list next to the table.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Records\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, pane := range m.panes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		maxLen := sidebarWidth - 6
		if len(pane) > maxLen {
			pane = pane[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + pane))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout shows pane tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.panes))
	for i, pane := range m.panes {
		if len(pane) > 10 {
			pane = pane[:9] + "."
		}
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(pane)
		} else {
			tabs[i] = tabStyle.Render(" " + pane + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", m.panes[m.cursor])
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty-state message.
func (m ScoreboardModel) renderTableContent() string {
	if m.rowCount == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.battlesPane() {
			return emptyStyle.Render("No online battles recorded yet.\nHost a battle over SSH to fill this in!")
		}
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
