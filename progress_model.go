package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/specviz/internal/generate"
	"github.com/olivier-w/specviz/internal/util"
)

const uiFPS = 30

type progressMsg generate.Progress

type generateDoneMsg struct{ err error }

type uiTickMsg time.Time

// generateModel shows generation progress: a spinner during analysis,
// a bar while frames render, and a summary line when done. The
// displayed percentage is spring-smoothed toward the last report so
// the bar moves continuously between the coarse progress updates.
type generateModel struct {
	title  string
	output string

	statusCh <-chan generate.Progress
	done     <-chan error
	cancel   func()

	spinner  spinner.Model
	progress progress.Model
	spring   harmonica.Spring
	shown    float64 // smoothed percent, 0-1
	shownVel float64
	target   float64

	status    string
	started   time.Time
	finished  bool
	cancelled bool
	err       error
	width     int
}

func newGenerateModel(title, output string, statusCh <-chan generate.Progress, done <-chan error, cancel func()) generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	return generateModel{
		title:    title,
		output:   output,
		statusCh: statusCh,
		done:     done,
		cancel:   cancel,
		spinner:  s,
		progress: p,
		spring:   harmonica.NewSpring(harmonica.FPS(uiFPS), 8.0, 1.0),
		status:   "computing spectrum",
		started:  time.Now(),
	}
}

func (m generateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForStatus(), m.waitForDone(), uiTick())
}

func uiTick() tea.Cmd {
	return tea.Tick(time.Second/uiFPS, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

func (m generateModel) waitForStatus() tea.Cmd {
	statusCh := m.statusCh
	return func() tea.Msg {
		p, ok := <-statusCh
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

func (m generateModel) waitForDone() tea.Cmd {
	done := m.done
	return func() tea.Msg {
		return generateDoneMsg{err: <-done}
	}
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 10
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 60 {
			barWidth = 60
		}
		m.progress.Width = barWidth
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.finished {
				m.cancelled = true
				m.status = "cancelling"
				m.cancel()
				return m, nil
			}
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case uiTickMsg:
		if m.finished {
			return m, nil
		}
		m.shown, m.shownVel = m.spring.Update(m.shown, m.shownVel, m.target)
		return m, uiTick()

	case progressMsg:
		m.status = msg.Message
		m.target = float64(msg.Percent) / 100
		if m.target < m.shown && msg.Percent == 0 {
			// A failure report; let the final view handle it.
			m.target = m.shown
		}
		return m, m.waitForStatus()

	case generateDoneMsg:
		m.finished = true
		m.err = msg.err
		m.shown = 1
		return m, tea.Quit
	}
	return m, nil
}

func (m generateModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("specviz"))
	if m.title != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(m.title))
	}
	b.WriteString("\n\n")

	switch {
	case m.finished && m.err != nil:
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(fmt.Sprintf("failed: %v", m.err)))
		b.WriteString("\n")
	case m.finished:
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(fmt.Sprintf("done in %s", util.FormatDuration(time.Since(m.started)))))
		b.WriteString("\n  ")
		b.WriteString(helpStyle.Render("saved to " + m.output))
		b.WriteString("\n")
	default:
		b.WriteString("  ")
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(m.shown))
		b.WriteString(fmt.Sprintf("  %.0f%%\n", m.shown*100))
		b.WriteString("\n  ")
		b.WriteString(helpStyle.Render("q cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)
