package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/videodedup/video"
)

// DetectModel renders extraction progress while the pipeline runs in the
// background. It quits on its own once detection finishes; quitting early
// cancels the run.
type DetectModel struct {
	total   int
	done    int
	prog    progress.Model
	events  <-chan tea.Msg
	cancel  func()
	groups  []video.DuplicateGroup
	err     error
	aborted bool
}

// NewDetectModel creates a progress view fed by events. cancel is invoked
// when the user aborts the run.
func NewDetectModel(total int, events <-chan tea.Msg, cancel func()) DetectModel {
	return DetectModel{
		total:  total,
		prog:   progress.New(progress.WithDefaultGradient()),
		events: events,
		cancel: cancel,
	}
}

// Groups returns the detection result once the model has quit.
func (m DetectModel) Groups() []video.DuplicateGroup { return m.groups }

// Err returns the detection error, if any.
func (m DetectModel) Err() error { return m.err }

// Cancelled reports whether the user aborted the run.
func (m DetectModel) Cancelled() bool { return m.aborted }

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

// Init implements tea.Model
func (m DetectModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// Update implements tea.Model
func (m DetectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.prog.Width = msg.Width - 8

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		return m, waitForEvent(m.events)

	case DetectDoneMsg:
		m.groups = msg.Groups
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m DetectModel) View() string {
	if m.aborted {
		return "Cancelling...\n"
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}

	return fmt.Sprintf("%s\n\n  %s (%d/%d)\n\n  Press 'q' to cancel\n",
		HeaderStyle.Render("Analyzing videos"),
		m.prog.ViewAs(percent),
		m.done,
		m.total)
}
