// Package statsui provides the Bubble Tea leaderboard and history browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/stats"
)

type tab int

const (
	tabBoard tab = iota
	tabHistory
	tabCount
)

func (t tab) title() string {
	if t == tabHistory {
		return "History"
	}
	return "Leaderboard"
}

const (
	fallbackWidth = 80
	noHistoryMsg  = "History is only recorded with the sqlite storage backend."
	helpLine      = "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	formHelpLine  = "tab/shift+tab: next field  enter: apply  esc: cancel"
)

var (
	gold  = lipgloss.Color("#C89A3A")
	muted = lipgloss.Color("#4A4A4A")

	tabStyle         = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeTabStyle   = tabStyle.Foreground(lipgloss.Color("#F0F0F0")).Bold(true).BorderForeground(gold)
	inactiveTabStyle = tabStyle.Foreground(lipgloss.Color("#B0B0B0")).BorderForeground(muted)
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle        = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(muted)
	cardLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	rowsStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Board exposes the leaderboard entries.
type Board interface {
	Entries() []model.ScoreRecord
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	history stats.SessionLister
	cfg     model.HistoryConfig

	report stats.Report
	err    error

	active   tab
	scores   table.Model
	trend    viewport.Model
	form     settingsForm
	editing  bool
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model. A nil history disables the History tab
// content.
func NewModel(board Board, history stats.SessionLister, cfg model.HistoryConfig) *Model {
	entries := board.Entries()
	m := &Model{
		history:  history,
		cfg:      cfg,
		scores:   newScoreTable(entries),
		trend:    viewport.New(0, 0),
		form:     newSettingsForm(),
		rowCount: len(entries),
	}
	m.scores.Focus()
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderTrend()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.editing {
			return m, m.updateForm(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "left", "h":
		m.switchTab(m.active + tabCount - 1)
		return tea.ClearScreen
	case "right", "l":
		m.switchTab(m.active + 1)
		return tea.ClearScreen
	case "=":
		m.cfg.Window = stepWindow(m.cfg.Window, 1)
		m.reload()
	case "-":
		m.cfg.Window = stepWindow(m.cfg.Window, -1)
		m.reload()
	case "/":
		m.editing = true
		return m.form.open(m.cfg)
	case "g", "home":
		m.scores.GotoTop()
		m.trend.GotoTop()
	case "G", "end":
		m.scores.GotoBottom()
		m.trend.GotoBottom()
	default:
		var cmd tea.Cmd
		if m.active == tabBoard {
			m.scores, cmd = m.scores.Update(msg)
		} else {
			m.trend, cmd = m.trend.Update(msg)
		}
		return cmd
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		m.editing = false
		return nil
	}
	cmd, submitted := m.form.update(msg)
	if !submitted {
		return cmd
	}
	cfg, err := m.form.parse()
	if err != nil {
		m.form.err = err
		return nil
	}
	m.editing = false
	m.cfg = cfg
	m.reload()
	return nil
}

func (m *Model) switchTab(t tab) {
	m.active = t % tabCount
	if m.active == tabBoard {
		m.scores.Focus()
	} else {
		m.scores.Blur()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.header()
	footer := m.footer()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := box(m.body(), m.width, bodyHeight)
	return lipgloss.JoinVertical(lipgloss.Left, box(header, m.width, lipgloss.Height(header)), body, box(footer, m.width, lipgloss.Height(footer)))
}

func (m *Model) header() string {
	tabs := make([]string, 0, tabCount)
	for t := tabBoard; t < tabCount; t++ {
		style := inactiveTabStyle
		if t == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.title()))
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	settings := fmt.Sprintf("Settings: records=%d  last=%s  window=%d", m.rowCount, last, m.cfg.Window)
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + dimStyle.Render(runewidth.Truncate(settings, m.width, "..."))
}

func (m *Model) footer() string {
	if m.editing {
		return dimStyle.Render(formHelpLine)
	}
	if m.err != nil {
		return dimStyle.Render(helpLine) + "\n" + errorStyle.Render(m.err.Error())
	}
	return dimStyle.Render(helpLine)
}

func (m *Model) body() string {
	switch {
	case m.editing:
		return m.form.view()
	case m.active == tabHistory:
		return m.trend.View()
	case m.rowCount == 0:
		return "No scores yet."
	default:
		return rowsStyle.Render(m.scores.View())
	}
}

// resize fits the table and viewport to the space left by header and footer.
func (m *Model) resize() {
	bodyHeight := max(1, m.height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()))
	m.trend.Width = m.width
	m.trend.Height = bodyHeight
	m.scores.SetWidth(m.width)
	m.scores.SetHeight(max(1, bodyHeight-1))
	m.form.setWidth(m.width)
}

// reload re-reads history with the current settings.
func (m *Model) reload() {
	m.err = nil
	if m.history != nil {
		report, err := stats.BuildReport(context.Background(), m.history, m.cfg)
		if err != nil {
			m.err = err
		} else {
			m.report = report
		}
	}
	m.renderTrend()
}

func (m *Model) renderTrend() {
	switch {
	case m.history == nil:
		m.trend.SetContent(noHistoryMsg)
	case m.err != nil:
		m.trend.SetContent("Failed to load history.")
	default:
		width := m.width
		if width <= 0 {
			width = fallbackWidth
		}
		m.trend.SetContent(renderOverview(m.report, width))
	}
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	var curves bytes.Buffer
	if err := stats.RenderCurves(&curves, report.Sessions, report.Window, width); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return summaryCards(report.Summary, width) + "\n\n" + strings.TrimRight(curves.String(), "\n")
}

func summaryCards(s stats.Summary, width int) string {
	cards := []string{
		card("Tests", strconv.Itoa(s.Sessions)),
		card("Completed", strconv.Itoa(s.Matched)),
		card("On board", strconv.Itoa(s.Qualified)),
		card("Avg WPM", fmt.Sprintf("%.1f", s.AvgWPM)),
		card("Best WPM", strconv.Itoa(s.BestWPM)),
		card("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
	}
	if width < fallbackWidth {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...))
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// newScoreTable builds the leaderboard table with columns sized to content.
func newScoreTable(entries []model.ScoreRecord) table.Model {
	data := stats.BoardRows(entries)
	cols := make([]table.Column, len(stats.BoardHeaders))
	for i, title := range stats.BoardHeaders {
		w := runewidth.StringWidth(title)
		for _, row := range data {
			w = max(w, runewidth.StringWidth(row[i]))
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	rows := make([]table.Row, len(data))
	for i, r := range data {
		rows[i] = table.Row(r)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(muted).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)

	return table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithStyles(styles),
	)
}

// stepWindow moves the curve window to the next multiple of five in dir,
// never below one.
func stepWindow(n, dir int) int {
	if dir > 0 {
		return (n/5 + 1) * 5
	}
	if n <= 5 {
		return 1
	}
	return (n - 1) / 5 * 5
}

// box clips s to width and pads or clips it to height lines.
func box(s string, width, height int) string {
	return lipgloss.NewStyle().
		MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}
