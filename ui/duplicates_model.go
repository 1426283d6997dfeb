package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/videodedup/video"
)

// groupState is one duplicate group plus its per-file selection state.
// The representative (the file every other member was scored against) is
// always the first path.
type groupState struct {
	paths    []string
	selected []bool
}

// DuplicatesModel is the TUI for reviewing duplicate groups and deleting
// the copies the user does not want to keep.
type DuplicatesModel struct {
	groups       []groupState
	currentGroup int
	currentFile  int

	width  int
	height int

	confirmingDeletion bool
	pendingDeletion    []string
	showHelp           bool

	quitting bool
}

// NewDuplicatesModel creates a new duplicates TUI model
func NewDuplicatesModel(duplicates []video.DuplicateGroup) DuplicatesModel {
	groups := make([]groupState, 0, len(duplicates))
	for _, g := range duplicates {
		groups = append(groups, groupState{
			paths:    append([]string(nil), g.Paths...),
			selected: make([]bool, len(g.Paths)),
		})
	}

	return DuplicatesModel{
		groups:   groups,
		showHelp: true,
	}
}

// Init implements tea.Model
func (m DuplicatesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m DuplicatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmingDeletion {
			return m.handleConfirmationInput(msg)
		}
		return m.handleNormalInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case DeletionCompleteMsg:
		m.handleDeletionComplete(msg)
	}

	return m, nil
}

func (m DuplicatesModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.groups) == 0 {
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.currentFile > 0 {
			m.currentFile--
		}

	case "down", "j":
		if m.currentFile < len(m.groups[m.currentGroup].paths)-1 {
			m.currentFile++
		}

	case "left", "p":
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}

	case "right", "n":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}

	case " ": // toggle selection
		group := &m.groups[m.currentGroup]
		group.selected[m.currentFile] = !group.selected[m.currentFile]

	case "a": // select everything except the representative
		group := &m.groups[m.currentGroup]
		for i := range group.selected {
			group.selected[i] = i != 0
		}

	case "c": // clear selections in current group
		group := &m.groups[m.currentGroup]
		for i := range group.selected {
			group.selected[i] = false
		}

	case "enter":
		return m.handleDeleteCommand()
	}

	return m, nil
}

func (m DuplicatesModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmingDeletion = false
		return m, m.executeDeleteCommand()

	case "n", "N", "ctrl+c", "esc":
		m.confirmingDeletion = false
		m.pendingDeletion = nil
	}

	return m, nil
}

func (m DuplicatesModel) handleDeleteCommand() (tea.Model, tea.Cmd) {
	var selectedFiles []string
	for _, group := range m.groups {
		for i, selected := range group.selected {
			if selected {
				selectedFiles = append(selectedFiles, group.paths[i])
			}
		}
	}

	if len(selectedFiles) == 0 {
		return m, nil
	}

	m.pendingDeletion = selectedFiles
	m.confirmingDeletion = true
	return m, nil
}

func (m DuplicatesModel) executeDeleteCommand() tea.Cmd {
	return func() tea.Msg {
		for _, filePath := range m.pendingDeletion {
			if err := os.Remove(filePath); err != nil {
				return DeletionCompleteMsg{FilePath: filePath, Success: false, Error: err}
			}
		}
		return DeletionCompleteMsg{Success: true}
	}
}

func (m *DuplicatesModel) handleDeletionComplete(msg DeletionCompleteMsg) {
	if !msg.Success || msg.FilePath != "" {
		m.pendingDeletion = nil
		return
	}

	deleted := make(map[string]bool, len(m.pendingDeletion))
	for _, f := range m.pendingDeletion {
		deleted[f] = true
	}

	remaining := m.groups[:0]
	for _, group := range m.groups {
		var paths []string
		var selected []bool
		for i, file := range group.paths {
			if !deleted[file] {
				paths = append(paths, file)
				selected = append(selected, group.selected[i])
			}
		}
		// A group with one survivor is no longer a duplicate group.
		if len(paths) > 1 {
			remaining = append(remaining, groupState{paths: paths, selected: selected})
		}
	}
	m.groups = remaining
	m.pendingDeletion = nil

	if len(m.groups) == 0 {
		m.quitting = true
		return
	}
	if m.currentGroup >= len(m.groups) {
		m.currentGroup = len(m.groups) - 1
	}
	if m.currentFile >= len(m.groups[m.currentGroup].paths) {
		m.currentFile = len(m.groups[m.currentGroup].paths) - 1
	}
}

// View implements tea.Model
func (m DuplicatesModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if len(m.groups) == 0 {
		style := SuccessStyle.MarginTop(2).MarginLeft(2)
		return style.Render("✅ All duplicate groups have been processed!\n\nPress 'q' to quit.")
	}

	if m.confirmingDeletion {
		return m.renderConfirmationDialog()
	}

	return m.renderMainView()
}

func (m DuplicatesModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("⚠️  Confirm Deletion"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Are you sure you want to delete %d file(s)?\n\n", len(m.pendingDeletion)))

	for _, file := range m.pendingDeletion {
		content.WriteString(fmt.Sprintf("  • %s\n", file))
	}

	content.WriteString("\n")
	content.WriteString(ErrorStyle.Render("This action cannot be undone!"))
	content.WriteString("\n\n")
	content.WriteString("Press 'y' to confirm, 'n' to cancel")

	return content.String()
}

func (m DuplicatesModel) renderMainView() string {
	var content strings.Builder

	header := fmt.Sprintf("videodedup - Duplicate Groups (%d of %d)",
		m.currentGroup+1, len(m.groups))
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	content.WriteString(InfoStyle.Render(fmt.Sprintf("%d files, first entry is the representative", len(group.paths))))
	content.WriteString("\n\n")

	for i, file := range group.paths {
		var line strings.Builder

		if group.selected[i] {
			line.WriteString("[✓] ")
		} else {
			line.WriteString("[ ] ")
		}

		label := file
		if i == 0 {
			label += "  ⭐"
		}

		switch {
		case i == m.currentFile && group.selected[i]:
			line.WriteString(SuccessStyle.Reverse(true).Render(label))
		case i == m.currentFile:
			line.WriteString(lipgloss.NewStyle().Reverse(true).Render(label))
		case group.selected[i]:
			line.WriteString(SuccessStyle.Render(label))
		default:
			line.WriteString(label)
		}

		content.WriteString(line.String())
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m DuplicatesModel) renderHelp() string {
	help := []string{
		"",
		"Navigation:",
		"  ↑/↓ or j/k   Navigate files in current group",
		"  ←/→ or p/n   Previous/Next duplicate group",
		"",
		"Selection:",
		"  Space        Toggle file selection",
		"  a            Select all copies (keeps the representative)",
		"  c            Clear selections in group",
		"",
		"Actions:",
		"  Enter        Delete selected files from all groups (with confirmation)",
		"  h/?          Toggle this help",
		"  q            Quit",
		"",
	}

	return strings.Join(help, "\n")
}
