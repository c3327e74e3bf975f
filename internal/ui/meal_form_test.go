package ui

import (
	"testing"

	"foodwagen/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealForm_RequiresName(t *testing.T) {
	form := NewMealFormModel()

	next, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, "Food name is required", next.error)
	assert.False(t, next.submitting)
}

func TestMealForm_SubmitEmitsDraft(t *testing.T) {
	form := NewMealFormModel()
	form.inputs[fieldName].SetValue("  Burger ")
	form.inputs[fieldPrice].SetValue("9.50")

	next, cmd := form.submit()
	require.NotNil(t, cmd)
	assert.True(t, next.submitting)
	assert.Empty(t, next.error)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var submitted *model.SubmitFoodMsg
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(model.SubmitFoodMsg); ok {
			submitted = &msg
		}
	}
	require.NotNil(t, submitted)
	assert.Equal(t, "", submitted.ID)
	assert.Equal(t, "Burger", submitted.Draft.Name)
	assert.Equal(t, "9.50", submitted.Draft.Price)
	assert.Equal(t, 5.0, submitted.Draft.Rating)
	assert.Nil(t, submitted.Draft.Restaurant)
}

func TestMealForm_IgnoresKeysWhileSubmitting(t *testing.T) {
	form := NewMealFormModel()
	form.inputs[fieldName].SetValue("Burger")
	next, _ := form.submit()

	after, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.Equal(t, "Burger", after.inputs[fieldName].Value())
}

func TestMealForm_DraftRestaurant(t *testing.T) {
	form := NewMealFormModel()
	form.inputs[fieldName].SetValue("Ramen")
	form.inputs[fieldRating].SetValue("not a number")
	form.inputs[fieldRestaurantName].SetValue("Ichiran")

	d := form.Draft()
	assert.Equal(t, 0.0, d.Rating)
	require.NotNil(t, d.Restaurant)
	assert.Equal(t, "Ichiran", d.Restaurant.Name)
	assert.Equal(t, model.StatusOpen, d.Restaurant.Status)

	form.toggleStatus()
	assert.Equal(t, model.StatusClosed, form.Draft().Restaurant.Status)
}

func TestMealForm_LoadFood(t *testing.T) {
	form := NewMealFormModel()
	form.LoadFood(model.Food{
		ID:         "7",
		Name:       "Tacos",
		Rating:     3.4,
		Price:      "4",
		Restaurant: &model.Restaurant{Name: "El Paso", Status: model.StatusClosed},
	})

	assert.True(t, form.Editing())
	d := form.Draft()
	assert.Equal(t, "Tacos", d.Name)
	assert.Equal(t, 3.4, d.Rating)
	require.NotNil(t, d.Restaurant)
	assert.Equal(t, model.StatusClosed, d.Restaurant.Status)
}

func TestMealForm_FieldCycling(t *testing.T) {
	form := NewMealFormModel()

	for i := 0; i < fieldStatus; i++ {
		form.nextField()
	}
	assert.Equal(t, fieldStatus, form.focusedField)

	next, _ := form.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, model.StatusClosed, next.status)

	next.nextField()
	assert.Equal(t, fieldName, next.focusedField)
	next.prevField()
	assert.Equal(t, fieldStatus, next.focusedField)
}
