// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/scoring"
	"github.com/verte-zerg/speedtype/internal/session"
	"github.com/verte-zerg/speedtype/internal/stats"
)

// tickMsg carries the handle id it was scheduled for.
type tickMsg struct {
	id int
}

func tickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{id: id}
	})
}

// Board exposes the current leaderboard for rendering.
type Board interface {
	Entries() []model.ScoreRecord
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctrl  *session.Controller
	board Board
	log   *zap.Logger

	progress progress.Model

	width  int
	height int

	inputRunes []rune
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#6366F1"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	goodStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	fairStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	poorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	durationOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#6366F1")).Padding(0, 1)
	durationOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	bannerStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(0, 2)

	boardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	medalStyles     = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")),
	}
	boardRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// NewModel constructs a typing TUI model.
func NewModel(ctrl *session.Controller, board Board, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{
		ctrl:     ctrl,
		board:    board,
		log:      log,
		progress: progress.New(progress.WithSolidFill("#6366F1"), progress.WithoutPercentage()),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg.id)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "ctrl+r":
			m.reset()
			return m, nil
		case "tab":
			m.cycleDuration()
			return m, nil
		case "enter":
			if m.ctrl.Phase() == session.Complete {
				m.reset()
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyBackspace:
			return m, m.handleBackspace()
		case tea.KeyCtrlW:
			return m, m.handleDeleteWord()
		case tea.KeySpace:
			return m, m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.handleRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sample := []rune(m.ctrl.Sample())
	if len(sample) == 0 {
		return ""
	}
	contentWidth := len(sample)
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
	}

	cursorIndex := -1
	if m.ctrl.Phase() != session.Complete && len(m.inputRunes) < len(sample) {
		cursorIndex = len(m.inputRunes)
	}
	styled := buildStyledRunes(sample, m.ctrl.Flags(), cursorIndex)
	text := wrapStyledRunes(styled, contentWidth)

	m.progress.Width = contentWidth
	sections := []string{
		titleStyle.Render("speedtype"),
		m.renderDurations(),
		m.renderStats(),
		m.progress.ViewAs(m.timeFraction()),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(text),
		"",
	}
	if banner := m.renderBanner(); banner != "" {
		sections = append(sections, banner, "")
	}
	sections = append(sections, m.renderBoard(), "", m.renderFooter(), m.renderHelp())
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) handleTick(id int) tea.Cmd {
	switch m.ctrl.Tick(context.Background(), id) {
	case session.EventTick:
		return tickCmd(id)
	case session.EventCompleted:
		m.logOutcome()
	}
	return nil
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	if m.ctrl.Phase() == session.Complete {
		return nil
	}
	m.inputRunes = append(m.inputRunes, runes...)
	return m.sendInput()
}

func (m *Model) handleBackspace() tea.Cmd {
	if len(m.inputRunes) == 0 || m.ctrl.Phase() == session.Complete {
		return nil
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
	return m.sendInput()
}

func (m *Model) handleDeleteWord() tea.Cmd {
	if len(m.inputRunes) == 0 || m.ctrl.Phase() == session.Complete {
		return nil
	}
	end := len(m.inputRunes)
	for end > 0 && m.inputRunes[end-1] == ' ' {
		end--
	}
	for end > 0 && m.inputRunes[end-1] != ' ' {
		end--
	}
	m.inputRunes = m.inputRunes[:end]
	return m.sendInput()
}

func (m *Model) sendInput() tea.Cmd {
	switch m.ctrl.Input(context.Background(), string(m.inputRunes)) {
	case session.EventStarted:
		return tickCmd(m.ctrl.TimerID())
	case session.EventCompleted:
		m.logOutcome()
	}
	return nil
}

func (m *Model) reset() {
	m.ctrl.Reset()
	m.inputRunes = nil
}

func (m *Model) cycleDuration() {
	if m.ctrl.Phase() == session.Running {
		return
	}
	next := nextDuration(m.ctrl.Duration())
	if err := m.ctrl.SelectDuration(next); err != nil {
		m.log.Debug("duration not changed", zap.Int("seconds", next), zap.Error(err))
		return
	}
	// Switching duration after a finished test starts a fresh one.
	if m.ctrl.Phase() == session.Complete {
		m.reset()
	}
}

func nextDuration(current int) int {
	for i, d := range model.Durations {
		if d == current {
			return model.Durations[(i+1)%len(model.Durations)]
		}
	}
	return model.Durations[0]
}

func (m *Model) logOutcome() {
	out, ok := m.ctrl.Outcome()
	if !ok {
		return
	}
	if out.SaveErr != nil {
		m.log.Warn("leaderboard not saved", zap.Error(out.SaveErr))
	}
}

func (m *Model) timeFraction() float64 {
	d := m.ctrl.Duration()
	if d <= 0 {
		return 0
	}
	return float64(m.ctrl.Elapsed()) / float64(d)
}

func (m *Model) currentResult() scoring.Result {
	if out, ok := m.ctrl.Outcome(); ok {
		return out.Result
	}
	return m.ctrl.LiveResult()
}

func (m *Model) renderDurations() string {
	parts := make([]string, 0, len(model.Durations)+1)
	parts = append(parts, labelStyle.Render("Duration"))
	for _, d := range model.Durations {
		label := fmt.Sprintf("%ds", d)
		if d == m.ctrl.Duration() {
			parts = append(parts, durationOnStyle.Render(label))
		} else {
			parts = append(parts, durationOffStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderStats() string {
	r := m.currentResult()
	segments := []string{
		labelStyle.Render("Time ") + titleStyle.Render(fmt.Sprintf("%ds/%ds", m.ctrl.Elapsed(), m.ctrl.Duration())),
		labelStyle.Render("WPM ") + wpmStyle(r.WPM).Render(fmt.Sprintf("%d", r.WPM)),
		labelStyle.Render("Accuracy ") + accuracyStyle(r.Accuracy).Render(fmt.Sprintf("%.1f%%", r.Accuracy)),
	}
	return strings.Join(segments, "   ")
}

func wpmStyle(wpm int) lipgloss.Style {
	switch {
	case wpm >= 60:
		return goodStyle
	case wpm >= 40:
		return fairStyle
	default:
		return poorStyle
	}
}

func accuracyStyle(acc float64) lipgloss.Style {
	switch {
	case acc >= 90:
		return goodStyle
	case acc >= scoring.MinAccuracy:
		return fairStyle
	default:
		return poorStyle
	}
}

func (m *Model) renderBanner() string {
	out, ok := m.ctrl.Outcome()
	if !ok {
		return ""
	}
	return bannerStyle.Render(bannerText(out))
}

func bannerText(out session.Outcome) string {
	var lines []string
	switch {
	case out.Celebrate:
		lines = append(lines, "*** Excellent! ***")
	case out.Reason == session.Timeout:
		lines = append(lines, "Time's up!")
	default:
		lines = append(lines, "Test complete!")
	}
	lines = append(lines, fmt.Sprintf("%d WPM · %.1f%% accuracy", out.Result.WPM, out.Result.Accuracy))
	switch {
	case out.Rank > 0:
		lines = append(lines, fmt.Sprintf("New leaderboard entry: %s", stats.RankLabel(out.Rank-1)))
	case !out.Qualified:
		lines = append(lines, fmt.Sprintf("Needs more than 0 WPM and %.0f%% accuracy for the leaderboard", scoring.MinAccuracy))
	}
	if out.SaveErr != nil {
		lines = append(lines, poorStyle.Render("Leaderboard could not be saved"))
	}
	lines = append(lines, footerStyle.Render("enter or ctrl+r to try again"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderBoard() string {
	entries := m.board.Entries()
	title := boardTitleStyle.Render(fmt.Sprintf("Leaderboard (%d records)", len(entries)))
	if len(entries) == 0 {
		return title + "\n" + footerStyle.Render("No scores yet. Finish a test to get on the board.")
	}
	lines := stats.BoardLines(entries)
	rendered := make([]string, 0, len(lines)+1)
	rendered = append(rendered, title, labelStyle.Render(lines[0]))
	for i, line := range lines[1:] {
		style := boardRowStyle
		if i < len(medalStyles) {
			style = medalStyles[i]
		}
		rendered = append(rendered, style.Render(line))
	}
	return strings.Join(rendered, "\n")
}

func (m *Model) renderHelp() string {
	return footerStyle.Render("Duration: tab  Restart: esc/ctrl+r  Delete word: ctrl+w  Quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	sample := []rune(m.ctrl.Sample())
	if len(sample) == 0 {
		return ""
	}
	progress := int(float64(len(m.inputRunes)) / float64(len(sample)) * 100)
	if progress > 100 {
		progress = 100
	}
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("State %s", m.ctrl.Phase()),
	}
	if entries := m.board.Entries(); len(entries) > 0 {
		best := entries[0]
		segments = append(segments, fmt.Sprintf("Best %d WPM · %.1f%%", best.WPM, best.Accuracy))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
