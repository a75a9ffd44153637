// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of starting a tea.Program, the driver calls Update directly and
// runs every returned Cmd inline, feeding its message back into the model.
// Cmds that block on timers (spinner ticks, cursor blinks, progress frames)
// are abandoned after a short timeout so tests stay deterministic.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDepth bounds how many chained Cmds one message may trigger.
const MaxDepth = 200

// cmdTimeout separates immediate Cmds from timer-driven ones. Timer Cmds in
// bubbles wait at least one animation frame, well above this.
const cmdTimeout = 10 * time.Millisecond

// Driver runs a tea.Model without a terminal.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quit is set once the model returns tea.Quit.
	Quit bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Start runs the model's Init command and everything it leads to.
func (d *Driver) Start() {
	d.T.Helper()
	d.run(d.Model.Init(), 0)
}

// Send delivers msg and runs the resulting commands.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quit {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, 0)
}

// Key sends a special key such as tea.KeyCtrlC or tea.KeyEnter.
func (d *Driver) Key(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Rune sends a single character key.
func (d *Driver) Rune(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDepth {
		d.T.Logf("teatest: command chain exceeded %d steps", MaxDepth)
		return
	}

	msg, ok := await(cmd)
	if !ok || msg == nil {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			d.run(c, depth+1)
		}
	case tea.QuitMsg:
		d.Quit = true
	default:
		var next tea.Cmd
		d.Model, next = d.Model.Update(msg)
		d.run(next, depth+1)
	}
}

// await runs cmd, giving up on it after cmdTimeout.
func await(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}
