package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/pathway/internal/cli/formatter"
	"github.com/alexanderramin/pathway/internal/pipeline"
)

type runEventMsg struct{ ev pipeline.Event }

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

var cancelKeys = key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"))

const maxBarWidth = 50

// generateModel shows a running generation: a spinner with the current
// step, a chapter progress bar and one line per finished chapter.
type generateModel struct {
	spinner spinner.Model
	bar     progress.Model
	msgs    <-chan tea.Msg
	cancel  context.CancelFunc

	total      int
	finished   int
	status     string
	lines      []string
	cancelling bool

	done   bool
	result *pipeline.Result
	err    error
}

func newGenerateModel(total int, msgs <-chan tea.Msg, cancel context.CancelFunc) generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = formatter.StylePurple

	bar := progress.New(progress.WithGradient("#d3869b", "#fe8019"))
	bar.Width = maxBarWidth

	return generateModel{
		spinner: s,
		bar:     bar,
		msgs:    msgs,
		cancel:  cancel,
		total:   total,
		status:  "Starting...",
	}
}

func (m generateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the run's following message.
func (m generateModel) next() tea.Cmd {
	ch := m.msgs
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, cancelKeys) && !m.cancelling && !m.done {
			m.cancelling = true
			m.status = "Cancelling..."
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-8, maxBarWidth), 10)
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case runEventMsg:
		m.apply(msg.ev)
		return m, m.next()

	case runDoneMsg:
		m.done = true
		m.result = msg.res
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m *generateModel) apply(ev pipeline.Event) {
	if ev.Total > 0 {
		m.total = ev.Total
	}
	if m.cancelling {
		return
	}
	switch ev.Kind {
	case pipeline.EventStatus, pipeline.EventRetrying:
		m.status = ev.Message
	case pipeline.EventSnapshot:
		switch ev.State {
		case pipeline.StateOutlineReady:
			m.lines = append(m.lines, formatter.StyleGreen.Render("✔ ")+ev.Message)
		case pipeline.StateChapterReady:
			m.finished++
			m.lines = append(m.lines, formatter.StyleGreen.Render("  ✔ ")+ev.Message)
		case pipeline.StateChapterFallback:
			m.finished++
			m.lines = append(m.lines, formatter.StyleYellow.Render("  ◐ ")+ev.Message)
		}
	case pipeline.EventComplete:
		m.finished = m.total
		m.status = ev.Message
	case pipeline.EventFailed:
		m.status = ev.Message
	}
}

func (m generateModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.finished) / float64(m.total)
}

func (m generateModel) View() string {
	var b strings.Builder
	for _, l := range m.lines {
		b.WriteString(l + "\n")
	}
	if m.done {
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s %s\n", m.spinner.View(), m.status)
	fmt.Fprintf(&b, "%s  %s\n", m.bar.ViewAs(m.percent()), formatter.Dim(fmt.Sprintf("%d/%d chapters", m.finished, m.total)))
	if !m.cancelling {
		b.WriteString(formatter.Dim("Press q or ctrl+c to cancel") + "\n")
	}
	return b.String()
}
