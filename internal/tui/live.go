// Package tui provides the live terminal view of a running simulation.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"physlab/internal/clock"
	"physlab/internal/recorder"
	"physlab/internal/sim"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model pairs a clock-paced runner with a plot of recent history.
type Model struct {
	runner    *sim.Runner
	odesim    sim.ODESim
	clk       *clock.Clock
	rec       *recorder.Recorder
	modelName string
	dt        float64
	frame     time.Duration
	slot      int
	err       error
	showHelp  bool
}

// NewModel builds the live view. The clock starts paused; the first
// keypress of space resumes it.
func NewModel(s sim.ODESim, runner *sim.Runner, clk *clock.Clock, rec *recorder.Recorder, modelName string, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		runner:    runner,
		odesim:    s,
		clk:       clk,
		rec:       rec,
		modelName: modelName,
		dt:        dt,
		frame:     time.Second / time.Duration(fps),
	}
}

func (m Model) Init() tea.Cmd {
	m.clk.Resume()
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.clk.IsRunning() {
				m.clk.Pause()
			} else {
				m.clk.Resume()
			}
		case "s":
			m.clk.Step(m.dt)
		case "+", "=":
			m.adjustRate(2)
		case "-":
			m.adjustRate(0.5)
		case "r":
			m.odesim.Reset()
			m.rec.Reset()
			m.clk.SetTime(0)
		case "tab":
			m.slot = (m.slot + 1) % m.odesim.Vars().NumVariables()
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if err := m.runner.Advance(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if _, err := m.rec.Record(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// adjustRate scales the TIME_RATE parameter so observers, not just this
// view, see the change.
func (m Model) adjustRate(factor float64) {
	p, err := m.clk.ParameterNumber(clock.ParamTimeRate)
	if err != nil {
		return
	}
	_ = p.SetValue(p.Value() * factor)
}

func (m Model) View() string {
	var b strings.Builder

	status := ""
	if !m.clk.IsRunning() {
		status = pausedStyle.Render("  [paused]")
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("physlab live: %s", m.modelName)) + status + "\n")

	series := m.rec.Series(m.slot)
	if len(series) > 1 {
		graph := asciigraph.Plot(series,
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Caption(m.slotName()),
		)
		b.WriteString(graphStyle.Render(graph) + "\n")
	} else {
		b.WriteString(graphStyle.Render("collecting samples...") + "\n")
	}

	rows := []struct {
		label string
		value string
	}{
		{"time", fmt.Sprintf("%.2fs", m.clk.Time())},
		{"real time", fmt.Sprintf("%.2fs", m.clk.RealTime())},
		{"rate", fmt.Sprintf("%.2fx", m.clk.TimeRate())},
		{"steps", fmt.Sprintf("%d", m.runner.Totals().Steps)},
		{"samples", fmt.Sprintf("%d", m.rec.Size())},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label) + valueStyle.Render(row.value) + "\n")
	}

	if m.showHelp {
		b.WriteString(helpStyle.Render(
			"space pause/resume  s step  +/- rate  tab plot var  r reset  q quit"))
	} else {
		b.WriteString(helpStyle.Render("? help  q quit"))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(pausedStyle.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	}
	return b.String()
}

func (m Model) slotName() string {
	v, err := m.odesim.Vars().Variable(m.slot)
	if err != nil {
		return fmt.Sprintf("slot %d", m.slot)
	}
	return strings.ToLower(strings.ReplaceAll(v.Name(), "_", " "))
}

// Run drives the live view until the user quits.
func Run(s sim.ODESim, runner *sim.Runner, clk *clock.Clock, rec *recorder.Recorder, modelName string, dt float64, fps int) error {
	p := tea.NewProgram(NewModel(s, runner, clk, rec, modelName, dt, fps))
	_, err := p.Run()
	return err
}
