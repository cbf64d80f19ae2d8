package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 150 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner animation.
type tickMsg time.Time

// row tracks one tool's display state.
type row struct {
	Key    string
	Status string
	Detail string
	Ratio  float64
	Active bool
}

// HydrateModel is a bubbletea model rendering per-tool hydration progress
// with a download bar for the active remote fetch.
type HydrateModel struct {
	title    string
	rows     []row
	rowIndex map[string]int
	bar      progress.Model
	done     bool
	err      error
	tick     int
}

// NewHydrateModel creates the model with one pending row per tool key.
func NewHydrateModel(title string, keys []string) HydrateModel {
	m := HydrateModel{
		title:    title,
		rowIndex: make(map[string]int, len(keys)),
		bar:      progress.New(progress.WithDefaultGradient()),
	}
	for _, key := range keys {
		m.rowIndex[key] = len(m.rows)
		m.rows = append(m.rows, row{Key: key, Status: "pending"})
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m HydrateModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m HydrateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case RowUpdateMsg:
		if idx, ok := m.rowIndex[msg.Key]; ok {
			m.rows[idx].Status = msg.Status
			m.rows[idx].Detail = msg.Detail
			m.rows[idx].Active = msg.Status == "installing" || msg.Status == "downloading"
		}
		return m, nil

	case RowProgressMsg:
		if idx, ok := m.rowIndex[msg.Key]; ok {
			m.rows[idx].Status = "downloading"
			m.rows[idx].Active = true
			if msg.BytesTotal > 0 {
				m.rows[idx].Ratio = float64(msg.BytesDone) / float64(msg.BytesTotal)
			}
			m.rows[idx].Detail = formatBytes(msg.BytesDone, msg.BytesTotal)
		}
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View satisfies the tea.Model interface.
func (m HydrateModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	keyWidth := len("TOOL")
	for _, r := range m.rows {
		if len(r.Key) > keyWidth {
			keyWidth = len(r.Key)
		}
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %s\n", HeaderStyle.Render(pad("TOOL", keyWidth)), HeaderStyle.Render("STATUS"))

	for _, r := range m.rows {
		status := StatusStyle(r.Status).Render(pad(r.Status, 12))
		fmt.Fprintf(&b, "%s  %s %s\n", pad(r.Key, keyWidth), status, r.Detail)
		if r.Active && r.Ratio > 0 {
			fmt.Fprintf(&b, "%s  %s\n", strings.Repeat(" ", keyWidth), m.bar.ViewAs(r.Ratio))
		}
	}

	if !m.done {
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		fmt.Fprintf(&b, "\n%s Hydrating %d/%d...\n", spinner, m.settledCount(), len(m.rows))
	}
	return b.String()
}

func (m HydrateModel) settledCount() int {
	settled := 0
	for _, r := range m.rows {
		switch r.Status {
		case "installed", "cached", "failed":
			settled++
		}
	}
	return settled
}

// Done returns whether the model has finished (work done or error).
func (m HydrateModel) Done() bool {
	return m.done
}

// Err returns any fatal error that occurred.
func (m HydrateModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func formatBytes(done, total int64) string {
	if total <= 0 {
		return fmt.Sprintf("%.1f MB", float64(done)/(1024*1024))
	}
	return fmt.Sprintf("%.1f / %.1f MB", float64(done)/(1024*1024), float64(total)/(1024*1024))
}
