// Package tui runs a batch under a full-screen bubbletea dashboard showing
// per-case completions, batch progress and process resource usage.
package tui

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/sysmon"
)

const (
	tickInterval = 500 * time.Millisecond
	historyLen   = 40
	minLogLines  = 3
	// chromeLines is every line outside the log panel: header, progress
	// panel, log borders and footer.
	chromeLines = 12
)

// Model is the dashboard state.
type Model struct {
	keymap KeyMap
	help   help.Model

	op      string
	modulus uint64
	version string

	start    time.Time
	now      time.Time
	finished time.Time

	progress orchestration.AggregatedProgress
	log      []string
	scroll   int
	pending  []JobDoneMsg

	durations *series
	cpu       *series
	mem       *series
	memStats  MemStatsMsg

	paused   bool
	done     bool
	autoQuit bool
	results  []orchestration.JobResult
	cancel   context.CancelFunc

	width  int
	height int
}

// NewModel returns the dashboard for b. cancel aborts the batch when the
// user quits early.
func NewModel(b Batch, cancel context.CancelFunc) Model {
	now := time.Now()
	return Model{
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		op:        b.Op.Name,
		modulus:   b.Engine.Params().Modulus,
		version:   b.Version,
		start:     now,
		now:       now,
		progress:  orchestration.AggregatedProgress{Total: len(b.Jobs)},
		durations: newSeries(historyLen),
		cpu:       newSeries(historyLen),
		mem:       newSeries(historyLen),
		autoQuit:  b.AutoQuit,
		cancel:    cancel,
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case JobDoneMsg:
		if m.paused {
			m.pending = append(m.pending, msg)
			return m, nil
		}
		m.applyJob(msg)
		return m, nil

	case BatchDoneMsg:
		m.flushPending()
		m.done = true
		m.finished = time.Now()
		m.results = msg.Results
		m.log = append(m.log, m.summaryLine())
		if m.autoQuit {
			return m, tea.Quit
		}
		return m, nil

	case TickMsg:
		m.now = time.Time(msg)
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.memStats = msg
		return m, nil

	case SysStatsMsg:
		m.cpu.push(msg.CPUPercent)
		m.mem.push(msg.MemPercent)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		if !m.paused {
			m.flushPending()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		if m.scroll < len(m.log)-1 {
			m.scroll++
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

func (m *Model) applyJob(msg JobDoneMsg) {
	m.progress = msg.Progress
	m.durations.push(float64(msg.Update.Duration.Microseconds()))
	mark := successStyle.Render("✓")
	if msg.Update.Failed {
		mark = errorStyle.Render("✗")
	}
	m.log = append(m.log, fmt.Sprintf("%s case %d  %s", mark, msg.Update.Job+1,
		format.FormatExecutionDuration(msg.Update.Duration)))
}

func (m *Model) flushPending() {
	for _, msg := range m.pending {
		m.applyJob(msg)
	}
	m.pending = nil
}

func (m Model) summaryLine() string {
	s := orchestration.Summarize(m.results)
	if err := orchestration.FirstError(m.results); err != nil {
		return errorStyle.Render(fmt.Sprintf("stopped: %v", err))
	}
	return successStyle.Render(fmt.Sprintf("all %d case(s) done, busy %s",
		s.Succeeded, format.FormatExecutionDuration(s.Busy)))
}

// Results returns the batch results once BatchDoneMsg arrived.
func (m Model) Results() []orchestration.JobResult { return m.results }

// Done reports whether the batch has finished.
func (m Model) Done() bool { return m.done }

func (m Model) elapsed() time.Duration {
	if m.done {
		return m.finished.Sub(m.start)
	}
	return m.now.Sub(m.start)
}

func (m Model) status() string {
	switch {
	case m.paused:
		return pausedStyle.Render("PAUSED")
	case m.done && orchestration.FirstError(m.results) != nil:
		return errorStyle.Render("FAILED")
	case m.done:
		return successStyle.Render("DONE")
	}
	return valueStyle.Render("RUNNING")
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	inner := max(m.width-4, 20)

	header := fmt.Sprintf("%s %s  %s mod %d  %s  %s",
		titleStyle.Render("polycalc"), dimStyle.Render(m.version),
		valueStyle.Render(m.op), m.modulus, m.status(),
		dimStyle.Render(format.FormatExecutionDuration(m.elapsed().Round(time.Millisecond))))

	p := m.progress
	stats := []string{
		format.FormatProgressLine(fractionOf(p), p.Done, p.Total, p.ETA, max(inner-40, 10)),
		kv("Failed", fmt.Sprintf("%d", p.Failed)),
		kv("Case time", Sparkline(m.durations.values, 0)),
		kv("CPU", fmt.Sprintf("%s %5.1f%%", Sparkline(m.cpu.values, 100), m.cpu.last())),
		kv("Memory", fmt.Sprintf("%s %5.1f%%", Sparkline(m.mem.values, 100), m.mem.last())),
		kv("Heap", fmt.Sprintf("%s, %d GC, %d goroutines",
			format.FormatBytes(m.memStats.HeapAlloc), m.memStats.NumGC, m.memStats.NumGoroutine)),
	}
	statsPanel := panelStyle.Width(inner).Render(strings.Join(stats, "\n"))

	logPanel := panelStyle.Width(inner).Render(strings.Join(m.visibleLog(), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, statsPanel, logPanel, m.help.View(m.keymap))
}

// visibleLog returns the log window that fits the terminal, newest last.
func (m Model) visibleLog() []string {
	lines := max(m.height-chromeLines, minLogLines)
	end := len(m.log) - m.scroll
	start := max(end-lines, 0)
	window := append([]string(nil), m.log[start:end]...)
	for len(window) < lines {
		window = append(window, "")
	}
	return window
}

func fractionOf(p orchestration.AggregatedProgress) float64 {
	if p.Total == 0 {
		return 1
	}
	return p.Fraction
}

func kv(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			HeapAlloc:    ms.HeapAlloc,
			NumGC:        ms.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}
