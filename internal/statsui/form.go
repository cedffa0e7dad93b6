package statsui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/speedtype/internal/model"
)

var (
	errBadLast   = errors.New("last must be a non-negative integer")
	errBadWindow = errors.New("curve window must be > 0")
)

// settingsForm edits the history limits.
type settingsForm struct {
	last   textinput.Model
	window textinput.Model
	focus  int
	err    error
}

func newSettingsForm() settingsForm {
	return settingsForm{
		last:   newInput("Last: ", "all"),
		window: newInput("Curve window: ", ""),
	}
}

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.Cursor.SetMode(cursor.CursorBlink)
	return in
}

func (f *settingsForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.last, &f.window}
}

// open fills the inputs from cfg and focuses the first one.
func (f *settingsForm) open(cfg model.HistoryConfig) tea.Cmd {
	f.err = nil
	f.last.SetValue("")
	if cfg.Last > 0 {
		f.last.SetValue(strconv.Itoa(cfg.Last))
	}
	f.window.SetValue(strconv.Itoa(cfg.Window))
	return f.focusOn(0)
}

func (f *settingsForm) focusOn(idx int) tea.Cmd {
	ins := f.inputs()
	f.focus = (idx + len(ins)) % len(ins)
	var cmd tea.Cmd
	for i, in := range ins {
		if i == f.focus {
			cmd = in.Focus()
			continue
		}
		in.Blur()
	}
	return cmd
}

func (f *settingsForm) setWidth(width int) {
	for _, in := range f.inputs() {
		in.Width = max(10, width-len(in.Prompt)-2)
	}
}

// update routes a key to the focused input. It reports whether the key
// submitted the form.
func (f *settingsForm) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		return f.focusOn(f.focus + 1), false
	case "shift+tab", "up":
		return f.focusOn(f.focus - 1), false
	case "enter":
		return nil, true
	}
	var cmd tea.Cmd
	in := f.inputs()[f.focus]
	*in, cmd = in.Update(msg)
	return cmd, false
}

// parse validates the inputs into a history config.
func (f *settingsForm) parse() (model.HistoryConfig, error) {
	var cfg model.HistoryConfig
	if raw := strings.TrimSpace(f.last.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return cfg, errBadLast
		}
		cfg.Last = n
	}
	n, err := strconv.Atoi(strings.TrimSpace(f.window.Value()))
	if err != nil || n <= 0 {
		return cfg, errBadWindow
	}
	cfg.Window = n
	return cfg, nil
}

func (f *settingsForm) view() string {
	lines := []string{"Settings (enter to apply, esc to cancel)", f.last.View(), f.window.View()}
	if f.err != nil {
		lines = append(lines, errorStyle.Render(f.err.Error()))
	}
	return strings.Join(lines, "\n")
}
