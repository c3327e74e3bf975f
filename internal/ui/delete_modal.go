package ui

import (
	"foodwagen/internal/model"
	"foodwagen/internal/util"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const deleteWarning = "Are you sure you want to delete this meal? Actions cannot be reversed."

// confirmDeleteMsg is sent when the user confirms the modal.
type confirmDeleteMsg struct {
	id string
}

// deleteCancelledMsg is sent when the user backs out of the modal.
type deleteCancelledMsg struct{}

// DeleteModalModel asks for confirmation before deleting a meal.
type DeleteModalModel struct {
	food     model.Food
	keys     ConfirmKeyMap
	deleting bool
	error    string
}

// NewDeleteModalModel creates a confirmation modal for food.
func NewDeleteModalModel(food model.Food) *DeleteModalModel {
	return &DeleteModalModel{food: food, keys: DefaultConfirmKeyMap()}
}

// SetError shows a failed delete and lets the user retry or cancel.
func (m *DeleteModalModel) SetError(msg string) {
	m.deleting = false
	m.error = msg
}

// Update handles input.
func (m *DeleteModalModel) Update(msg tea.KeyMsg) tea.Cmd {
	if m.deleting {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.deleting = true
		m.error = ""
		id := m.food.ID
		return func() tea.Msg { return confirmDeleteMsg{id: id} }
	case key.Matches(msg, m.keys.Cancel):
		return func() tea.Msg { return deleteCancelledMsg{} }
	}
	return nil
}

// View renders the modal centered in the given area.
func (m *DeleteModalModel) View(width, height int) string {
	lines := []string{
		LabelStyle.Foreground(ColorRed).Render("Delete Meal"),
		"",
		NormalRowStyle.Render(util.TruncateString(m.food.Name, 40)),
		"",
		HelpDescStyle.Width(min(50, max(20, width-12))).Render(deleteWarning),
		"",
	}
	if m.error != "" {
		lines = append(lines, ErrorStyle.Render(m.error), "")
	}
	if m.deleting {
		lines = append(lines, HelpDescStyle.Render("Deleting..."))
	} else {
		lines = append(lines,
			ClosedBadgeStyle.Render("Yes, delete (y)")+"  "+InactiveButtonStyle.Render("Cancel (n)"))
	}

	modal := ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return placeCenter(width, height, modal)
}
