// Package ui renders the live input meter in the terminal. Each visual style
// owns its own renderer handle on the level pipeline, queried once per
// display tick at a rate independent of the capture rate.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soniq/levelviz/internal/level"
)

const (
	displayFPS = 60
	historyLen = 240
)

var historyRunes = []rune("▁▂▃▄▅▆▇█")

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/displayFPS, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the meter screen. It holds one renderer
// per style; switching styles never disturbs the other style's smoothing
// state.
type Model struct {
	bar     *level.Renderer
	history *level.Renderer

	showHistory bool
	recording   bool

	width  int
	height int

	frame   level.Frame
	levels  []float64
	trace   springTrace
	heights []float64
	started time.Time
}

// New creates the meter screen with one renderer handle per visual style.
func New(bar, history *level.Renderer) Model {
	return Model{
		bar:     bar,
		history: history,
		trace:   newSpringTrace(displayFPS, 7.0, 0.6),
		levels:  make([]float64, 0, historyLen),
		started: time.Now(),
	}
}

// SetRecording toggles the recording indicator in the header.
func (m *Model) SetRecording(on bool) {
	m.recording = on
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", " ":
			m.showHistory = !m.showHistory
			return m, nil
		}
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		m.frame = m.bar.Query(now)

		hist := m.history.Query(now)
		m.levels = append(m.levels, hist.Value)
		if len(m.levels) > historyLen {
			m.levels = m.levels[len(m.levels)-historyLen:]
		}
		m.stepTrace()
		return m, tick()
	}
	return m, nil
}

// stepTrace advances the spring-smoothed column heights toward the most
// recent history window for the current terminal width.
func (m *Model) stepTrace() {
	cols := m.traceCols()
	m.trace.resize(cols)
	if len(m.heights) != cols {
		m.heights = make([]float64, cols)
	}
	for c := 0; c < cols; c++ {
		idx := len(m.levels) - cols + c
		target := 0.0
		if idx >= 0 && idx < len(m.levels) {
			target = m.levels[idx]
		}
		m.heights[c] = m.trace.step(c, target)
	}
}

func (m Model) traceCols() int {
	cols := m.width - 6
	if cols < 8 {
		cols = 8
	}
	if cols > historyLen {
		cols = historyLen
	}
	return cols
}

func (m Model) View() string {
	if m.width < 12 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(titleStyle.Render("levelviz"))
	if m.recording {
		sb.WriteString("  ")
		sb.WriteString(recStyle.Render(fmt.Sprintf("● REC %s", formatElapsed(time.Since(m.started)))))
	}
	sb.WriteString("\n\n")

	if m.showHistory {
		sb.WriteString(m.viewHistory())
	} else {
		sb.WriteString(m.viewBar())
	}

	sb.WriteString("\n\n ")
	sb.WriteString(hintStyle.Render("tab: switch view · q: quit"))
	return sb.String()
}

// viewBar renders the classic meter: a filled bar with color zones and a
// decaying peak-hold marker column.
func (m Model) viewBar() string {
	barWidth := m.width - 6
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(m.frame.Value * float64(barWidth))
	peakPos := int(m.frame.Peak * float64(barWidth))
	if peakPos >= barWidth {
		peakPos = barWidth - 1
	}

	var sb strings.Builder
	sb.WriteString(" in ")
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			sb.WriteString(zoneStyle(i, barWidth).Render("█"))
		case i == peakPos && peakPos > 0:
			sb.WriteString(peakStyle.Render("│"))
		default:
			sb.WriteString(restStyle.Render("─"))
		}
	}
	return sb.String()
}

// viewHistory renders the recent level trace as a scrolling sparkline with
// spring-smoothed column heights.
func (m Model) viewHistory() string {
	var sb strings.Builder
	sb.WriteString(" in ")
	for _, v := range m.heights {
		r := historyRunes[runeIndex(v)]
		sb.WriteString(levelColor(v).Render(string(r)))
	}
	return sb.String()
}

func runeIndex(v float64) int {
	i := int(v * float64(len(historyRunes)))
	if i >= len(historyRunes) {
		i = len(historyRunes) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
