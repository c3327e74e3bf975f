package ui

import (
	"strings"

	"foodwagen/internal/model"
	"foodwagen/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const (
	previewWidth  = 48
	previewHeight = 16
)

// MealDetailModel represents the meal detail screen.
type MealDetailModel struct {
	food model.Food

	preview        string
	previewErr     string
	previewLoading bool
}

// NewMealDetailModel creates a new meal detail model.
func NewMealDetailModel(food model.Food) *MealDetailModel {
	return &MealDetailModel{
		food:           food,
		previewLoading: util.IsValidURL(food.Image),
	}
}

// Food returns the meal on screen.
func (m *MealDetailModel) Food() model.Food {
	return m.food
}

// SetPreview stores the rendered image for the current meal. Results for
// another image are dropped.
func (m *MealDetailModel) SetPreview(msg previewLoadedMsg) {
	if msg.url != m.food.Image {
		return
	}
	m.previewLoading = false
	if msg.err != nil {
		m.previewErr = msg.err.Error()
		return
	}
	m.preview = msg.art
}

// View renders the meal detail.
func (m *MealDetailModel) View(width, height int) string {
	f := m.food

	shortcuts := HelpDescStyle.Render("e edit  d delete  y copy image url  h back")
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	var fields []string
	fields = append(fields, renderField("Name", f.Name))
	fields = append(fields, renderField("Price", util.FormatPrice(f.Price)))
	fields = append(fields, LabelStyle.Render("Rating:")+" "+
		RatingStyle.Render(util.FormatRatingStars(f.Rating)+" "+util.FormatRating(f.Rating)))
	fields = append(fields, renderField("Image", f.Image))

	if f.Restaurant != nil {
		fields = append(fields, "")
		fields = append(fields, renderField("Restaurant", f.Restaurant.Name))
		fields = append(fields, renderField("Logo", f.Restaurant.Logo))
		fields = append(fields, LabelStyle.Render("Status:")+" "+renderStatusBadge(f.Restaurant))
	} else {
		fields = append(fields, "")
		fields = append(fields, HelpDescStyle.Render("No restaurant information."))
	}
	fields = append(fields, "")
	fields = append(fields, renderField("ID", f.ID))

	info := strings.Join(fields, "\n")

	var preview string
	switch {
	case m.previewLoading:
		preview = HelpDescStyle.Render("Loading image...")
	case m.preview != "":
		preview = m.preview
	case m.previewErr != "":
		preview = ErrorStyle.Render("Image unavailable: " + m.previewErr)
	default:
		preview = ImagePlaceholderStyle.
			Width(previewWidth).
			Height(previewHeight / 2).
			Render("\n\nno image")
	}

	var body string
	if width >= previewWidth+60 {
		left := lipgloss.NewStyle().Width(width - previewWidth - 16).Render(info)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", preview)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, info, "", preview)
	}

	content := PanelStyle.
		Width(width - 4).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, content)
}
