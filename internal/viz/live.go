// Package viz provides the terminal live view: the relaxation toward
// equilibrium rendered frame by frame as it converges.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/solver"
)

const (
	graphWidth        = 80
	graphHeight       = 12
	iterationsPerTick = 4
	historyCapacity   = 2000
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	coldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model animates one solver run: each frame advances a few relaxation
// iterations and replots the temperature history.
type Model struct {
	climate *climate.Model
	solver  *solver.Solver

	initialTemp     float64
	solarMultiplier float64
	frameRate       int

	temp    float64
	balance float64
	iter    int
	done    bool
	history []float64
	paused  bool
}

func NewModel(m *climate.Model, s *solver.Solver, initialTemp, solarMultiplier float64, frameRate int) Model {
	if frameRate <= 0 {
		frameRate = 30
	}
	temp := m.Params().ClampTemperature(initialTemp)
	return Model{
		climate:         m,
		solver:          s,
		initialTemp:     initialTemp,
		solarMultiplier: solarMultiplier,
		frameRate:       frameRate,
		temp:            temp,
		balance:         m.Balance(temp, solarMultiplier),
		history:         []float64{temp},
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			restarted := NewModel(m.climate, m.solver, m.initialTemp, m.solarMultiplier, m.frameRate)
			return restarted, restarted.Init()
		}
		return m, nil

	case TickMsg:
		if !m.paused && !m.done {
			m.advance()
		}
		return m, m.tick()
	}

	return m, nil
}

// advance runs a few solver iterations inline, mirroring the solver's
// update rule exactly so the animation and Solve agree step for step.
func (m *Model) advance() {
	p := m.climate.Params()

	for i := 0; i < iterationsPerTick && !m.done; i++ {
		m.balance = m.climate.Balance(m.temp, m.solarMultiplier)

		if math.Abs(m.balance) < m.solver.Tolerance {
			m.done = true
			break
		}
		if m.iter >= m.solver.MaxIterations {
			m.done = true
			break
		}

		m.temp = p.ClampTemperature(m.temp + m.solver.StepFactor*m.balance)
		m.iter++

		if len(m.history) < historyCapacity {
			m.history = append(m.history, m.temp)
		}
	}
}

func (m Model) View() string {
	p := m.climate.Params()

	header := headerStyle.Render(fmt.Sprintf("snowball equilibrium search  (S x %.3f)", m.solarMultiplier))

	graph := asciigraph.Plot(m.history,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("temperature (K) vs iteration"),
	)

	state := "iterating"
	switch {
	case m.done && math.Abs(m.balance) < m.solver.Tolerance:
		state = "converged"
	case m.done:
		state = "budget exhausted"
	case m.paused:
		state = "paused"
	}

	regime := warmStyle.Render("above freezing")
	if m.temp < p.TFreeze {
		regime = coldStyle.Render("below freezing (Snowball)")
	}

	stats := statsStyle.Render(strings.Join([]string{
		row("temperature", fmt.Sprintf("%.2f K  (%.2f °C)", m.temp, m.temp-p.TFreeze)),
		row("balance", fmt.Sprintf("%+.4f W/m²", m.balance)),
		row("albedo", fmt.Sprintf("%.4f", m.climate.Albedo(m.temp))),
		row("emissivity", fmt.Sprintf("%.4f", m.climate.Greenhouse(m.temp))),
		row("iteration", fmt.Sprintf("%d / %d", m.iter, m.solver.MaxIterations)),
		row("state", state),
		row("regime", regime),
	}, "\n"))

	help := helpStyle.Render("space pause · r restart · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		graphStyle.Render(graph),
		stats,
		help,
	)
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// Run blocks until the user quits the live view.
func Run(m *climate.Model, s *solver.Solver, initialTemp, solarMultiplier float64, frameRate int) error {
	program := tea.NewProgram(NewModel(m, s, initialTemp, solarMultiplier, frameRate))
	_, err := program.Run()
	return err
}
