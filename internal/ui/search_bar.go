package ui

import (
	"strings"

	"foodwagen/internal/debounce"
	"foodwagen/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// searchSubmittedMsg applies a query immediately, bypassing the debounce.
type searchSubmittedMsg struct {
	query string
}

// searchClosedMsg is sent when the search bar gives focus back.
type searchClosedMsg struct{}

// SearchBarModel is the "Find Meal" input with a debounced query.
type SearchBarModel struct {
	input     textinput.Model
	debouncer *debounce.Debouncer
	applied   string
	pending   bool
}

// NewSearchBarModel creates a search bar.
func NewSearchBarModel(d *debounce.Debouncer) *SearchBarModel {
	input := textinput.New()
	input.Placeholder = "What do you like to eat today?"
	input.Prompt = "🔍 "
	input.CharLimit = 100

	if d == nil {
		d = debounce.New(debounce.DefaultDelay)
	}
	return &SearchBarModel{input: input, debouncer: d}
}

// Focus activates the input.
func (m *SearchBarModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur deactivates the input.
func (m *SearchBarModel) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has focus.
func (m *SearchBarModel) Focused() bool {
	return m.input.Focused()
}

// Value returns what is typed.
func (m *SearchBarModel) Value() string {
	return m.input.Value()
}

// Applied returns the query last handed to the store.
func (m *SearchBarModel) Applied() string {
	return m.applied
}

// Pending reports whether a debounced evaluation is outstanding.
func (m *SearchBarModel) Pending() bool {
	return m.pending
}

// Reset clears the input and cancels any pending evaluation.
func (m *SearchBarModel) Reset() {
	m.debouncer.Cancel()
	m.input.SetValue("")
	m.applied = ""
	m.pending = false
}

// Accept reports whether a fired debounce belongs to the latest keystroke,
// and records it as applied if so.
func (m *SearchBarModel) Accept(msg debounce.FiredMsg) bool {
	if !m.debouncer.Accept(msg) {
		return false
	}
	m.applied = msg.Payload
	m.pending = false
	return true
}

// Update handles keys while the search bar is focused.
func (m *SearchBarModel) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.debouncer.Cancel()
		m.pending = false
		m.applied = m.input.Value()
		query := m.applied
		return func() tea.Msg { return searchSubmittedMsg{query: query} }
	case "esc":
		m.Reset()
		m.input.Blur()
		return func() tea.Msg { return searchClosedMsg{} }
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return cmd
	}

	m.pending = true
	return tea.Batch(cmd, m.debouncer.Schedule(m.input.Value()))
}

// Forward passes non-key messages (cursor blink) to the input.
func (m *SearchBarModel) Forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the search bar and the "Find Meal" button.
func (m *SearchBarModel) View(width int) string {
	style := BorderStyle
	if m.input.Focused() {
		style = ActiveBorderStyle
	}

	button := InactiveButtonStyle.Render("Find Meal")
	if m.input.Focused() {
		button = ButtonStyle.Render("Find Meal")
	}

	inputWidth := max(10, width-lipgloss.Width(button)-8)
	m.input.Width = inputWidth - 4
	field := style.Width(inputWidth).Render(m.input.View())

	status := ""
	if m.pending {
		status = HelpDescStyle.Render(" …")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, field, " ", button, status)
}

// renderDeliveryToggle renders the header Delivery/Pickup switch.
func renderDeliveryToggle(mode model.DeliveryMode) string {
	delivery := InactiveButtonStyle.Render("Delivery")
	pickup := InactiveButtonStyle.Render("Pickup")
	if mode == model.DeliveryModePickup {
		pickup = ButtonStyle.Render("Pickup")
	} else {
		delivery = ButtonStyle.Render("Delivery")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, delivery, pickup)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
