package ui

import (
	"strings"

	"foodwagen/internal/model"
	"foodwagen/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldRating
	fieldPrice
	fieldImage
	fieldRestaurantName
	fieldRestaurantLogo
	fieldStatus // toggle, not a text input
	fieldCount
)

// MealFormModel is the add/edit meal form.
type MealFormModel struct {
	foodID       string
	focusedField int
	inputs       []textinput.Model
	status       model.RestaurantStatus
	keys         FormKeyMap

	submitting bool
	spinner    spinner.Model
	error      string
}

// NewMealFormModel creates an empty form for a new meal.
func NewMealFormModel() *MealFormModel {
	inputs := make([]textinput.Model, fieldStatus)

	inputs[fieldName] = textinput.New()
	inputs[fieldName].Placeholder = "Food name"
	inputs[fieldName].Focus()
	inputs[fieldName].CharLimit = 100

	inputs[fieldRating] = textinput.New()
	inputs[fieldRating].Placeholder = "0-5"
	inputs[fieldRating].CharLimit = 4
	inputs[fieldRating].SetValue("5")

	inputs[fieldPrice] = textinput.New()
	inputs[fieldPrice].Placeholder = "12.99"
	inputs[fieldPrice].CharLimit = 12

	inputs[fieldImage] = textinput.New()
	inputs[fieldImage].Placeholder = "https://…/food.png"
	inputs[fieldImage].CharLimit = 500

	inputs[fieldRestaurantName] = textinput.New()
	inputs[fieldRestaurantName].Placeholder = "Restaurant name"
	inputs[fieldRestaurantName].CharLimit = 100

	inputs[fieldRestaurantLogo] = textinput.New()
	inputs[fieldRestaurantLogo].Placeholder = "https://…/logo.png"
	inputs[fieldRestaurantLogo].CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return &MealFormModel{
		inputs:  inputs,
		status:  model.StatusOpen,
		keys:    DefaultFormKeyMap(),
		spinner: s,
	}
}

// LoadFood pre-fills the form for editing.
func (m *MealFormModel) LoadFood(f model.Food) {
	m.foodID = f.ID
	m.inputs[fieldName].SetValue(f.Name)
	m.inputs[fieldRating].SetValue(util.FormatRating(f.Rating))
	m.inputs[fieldPrice].SetValue(f.Price)
	m.inputs[fieldImage].SetValue(f.Image)
	m.inputs[fieldRestaurantName].SetValue("")
	m.inputs[fieldRestaurantLogo].SetValue("")
	m.status = model.StatusClosed
	if f.Restaurant != nil {
		m.inputs[fieldRestaurantName].SetValue(f.Restaurant.Name)
		m.inputs[fieldRestaurantLogo].SetValue(f.Restaurant.Logo)
		m.status = f.Restaurant.Status
	}
}

// Editing reports whether the form edits an existing meal.
func (m *MealFormModel) Editing() bool {
	return m.foodID != ""
}

// SetError shows a save failure and re-enables the form.
func (m *MealFormModel) SetError(msg string) {
	m.submitting = false
	m.error = msg
}

// Update handles input.
func (m MealFormModel) Update(msg tea.Msg) (MealFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return model.FormCancelledMsg{} }
		case key.Matches(msg, m.keys.Save):
			return m.submit()
		case key.Matches(msg, m.keys.NextField):
			m.nextField()
			return m, nil
		case key.Matches(msg, m.keys.PrevField):
			m.prevField()
			return m, nil
		case m.focusedField == fieldStatus && key.Matches(msg, m.keys.ToggleStatus):
			m.toggleStatus()
			return m, nil
		}

		if m.focusedField < len(m.inputs) {
			var cmd tea.Cmd
			m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// submit validates the form. Only the name is required; on success the form
// turns into a submitting state and emits SubmitFoodMsg.
func (m MealFormModel) submit() (MealFormModel, tea.Cmd) {
	draft := m.Draft()
	if strings.TrimSpace(draft.Name) == "" {
		m.error = "Food name is required"
		m.focus(fieldName)
		return m, nil
	}

	m.error = ""
	m.submitting = true
	id := m.foodID
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return model.SubmitFoodMsg{ID: id, Draft: draft} },
	)
}

// Draft builds the outbound draft from the current inputs. The restaurant is
// left out when both its name and logo are blank.
func (m *MealFormModel) Draft() model.FoodDraft {
	d := model.FoodDraft{
		Name:   strings.TrimSpace(m.inputs[fieldName].Value()),
		Rating: util.ParseRating(m.inputs[fieldRating].Value()),
		Price:  strings.TrimSpace(m.inputs[fieldPrice].Value()),
		Image:  strings.TrimSpace(m.inputs[fieldImage].Value()),
	}

	name := strings.TrimSpace(m.inputs[fieldRestaurantName].Value())
	logo := strings.TrimSpace(m.inputs[fieldRestaurantLogo].Value())
	if name != "" || logo != "" {
		d.Restaurant = &model.Restaurant{Name: name, Logo: logo, Status: m.status}
	}
	return d
}

// View renders the form.
func (m *MealFormModel) View(width, height int) string {
	title := "Add a meal"
	if m.Editing() {
		title = "Edit meal"
	}

	var fields []string
	fields = append(fields, TitleStyle.Render(title))
	fields = append(fields, renderFormField("Food name *", m.inputs[fieldName], m.focusedField == fieldName))

	half := max(20, (width-14)/2)
	row := func(a, b int, la, lb string) string {
		left := lipgloss.NewStyle().Width(half).Render(renderFormField(la, m.inputs[a], m.focusedField == a))
		right := lipgloss.NewStyle().Width(half).Render(renderFormField(lb, m.inputs[b], m.focusedField == b))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	fields = append(fields, row(fieldRating, fieldPrice, "Rating", "Price"))
	fields = append(fields, renderFormField("Food image URL", m.inputs[fieldImage], m.focusedField == fieldImage))
	fields = append(fields, row(fieldRestaurantName, fieldRestaurantLogo, "Restaurant name", "Restaurant logo URL"))
	fields = append(fields, m.renderStatusToggle())

	if m.error != "" {
		fields = append(fields, ErrorStyle.Render(m.error))
	}

	action := "Add Meal"
	if m.Editing() {
		action = "Save"
	}
	footer := ButtonStyle.Render(action) + "  " + InactiveButtonStyle.Render("Cancel")
	if m.submitting {
		footer = HelpDescStyle.Render(m.spinner.View() + " Saving...")
	}
	fields = append(fields, footer)

	return PanelStyle.
		Width(width - 4).
		Height(max(0, height-4)).
		Render(strings.Join(fields, "\n"))
}

func (m *MealFormModel) renderStatusToggle() string {
	open := InactiveButtonStyle.Render(string(model.StatusOpen))
	closed := InactiveButtonStyle.Render(string(model.StatusClosed))
	if m.status == model.StatusOpen {
		open = OpenBadgeStyle.Render(string(model.StatusOpen))
	} else {
		closed = ClosedBadgeStyle.Render(string(model.StatusClosed))
	}

	style := BorderStyle
	if m.focusedField == fieldStatus {
		style = ActiveBorderStyle
	}
	return style.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render("Restaurant status"),
		open+" "+closed,
	))
}

func (m *MealFormModel) toggleStatus() {
	if m.status == model.StatusOpen {
		m.status = model.StatusClosed
	} else {
		m.status = model.StatusOpen
	}
}

func (m *MealFormModel) focus(field int) {
	if m.focusedField < len(m.inputs) {
		m.inputs[m.focusedField].Blur()
	}
	m.focusedField = field
	if m.focusedField < len(m.inputs) {
		m.inputs[m.focusedField].Focus()
	}
}

func (m *MealFormModel) nextField() {
	m.focus((m.focusedField + 1) % fieldCount)
}

func (m *MealFormModel) prevField() {
	prev := m.focusedField - 1
	if prev < 0 {
		prev = fieldCount - 1
	}
	m.focus(prev)
}
