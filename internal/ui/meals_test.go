package ui

import (
	"fmt"
	"testing"

	"foodwagen/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyFoods(n int) []model.Food {
	foods := make([]model.Food, n)
	for i := range foods {
		foods[i] = model.Food{
			ID:     fmt.Sprint(i + 1),
			Name:   fmt.Sprintf("Meal %02d", i+1),
			Rating: float64(i%5) + 0.5,
			Price:  fmt.Sprint(i + 1),
		}
	}
	return foods
}

func TestMeals_GridNavigation(t *testing.T) {
	m := NewMealsModel(manyFoods(7), ViewGrid)
	m.View(3*(cardWidth+1), 4*cardHeight)
	require.Equal(t, 3, m.gridCols)

	m.MoveDown()
	assert.Equal(t, "4", m.Selected().ID)
	m.MoveRight()
	assert.Equal(t, "5", m.Selected().ID)
	m.MoveDown()
	assert.Equal(t, "5", m.Selected().ID, "no card below in the last row")
	m.MoveUp()
	assert.Equal(t, "2", m.Selected().ID)
	m.MoveLeft()
	m.MoveLeft()
	assert.Equal(t, "1", m.Selected().ID)

	m.JumpToBottom()
	assert.Equal(t, "7", m.Selected().ID)
	m.JumpToTop()
	assert.Equal(t, "1", m.Selected().ID)
}

func TestMeals_ListIgnoresHorizontal(t *testing.T) {
	m := NewMealsModel(manyFoods(3), ViewList)
	m.MoveRight()
	assert.Equal(t, "1", m.Selected().ID)
	m.MoveDown()
	assert.Equal(t, "2", m.Selected().ID)
}

func TestMeals_SetFoodsKeepsSelection(t *testing.T) {
	m := NewMealsModel(manyFoods(5), ViewList)
	m.MoveDown()
	m.MoveDown()
	require.Equal(t, "3", m.Selected().ID)

	foods := manyFoods(5)
	m.SetFoods(append(foods[:1], foods[2:]...))
	assert.Equal(t, "3", m.Selected().ID)

	m.SetFoods(manyFoods(1))
	assert.Equal(t, "1", m.Selected().ID)

	m.SetFoods(nil)
	assert.Nil(t, m.Selected())
}

func TestMeals_SortCycle(t *testing.T) {
	m := NewMealsModel([]model.Food{
		{ID: "a", Name: "Sushi", Price: "20"},
		{ID: "b", Name: "Pizza", Price: "9"},
		{ID: "c", Name: "Burger", Price: "100"},
	}, ViewList)

	for m.columns[m.activeColumn].key != "price" {
		m.NextColumn()
	}

	assert.Equal(t, "Sorted PRICE ascending", m.CycleSortActiveColumn())
	assert.Equal(t, []string{"b", "a", "c"}, ids(m.rows))
	assert.Equal(t, "sorted by PRICE ↑", m.TableMeta())

	assert.Equal(t, "Sorted PRICE descending", m.CycleSortActiveColumn())
	assert.Equal(t, []string{"c", "a", "b"}, ids(m.rows))

	assert.Equal(t, "Sorting cleared", m.CycleSortActiveColumn())
	assert.Equal(t, []string{"a", "b", "c"}, ids(m.rows))
	assert.Empty(t, m.TableMeta())
}

func TestMeals_ListViewRendersColumns(t *testing.T) {
	m := NewMealsModel([]model.Food{
		{ID: "a", Name: "Sushi", Price: "20", Rating: 4, Restaurant: &model.Restaurant{Name: "Kyoto", Status: model.StatusOpen}},
	}, ViewList)

	out := m.View(100, 10)
	assert.Contains(t, out, "MEAL")
	assert.Contains(t, out, "RESTAURANT")
	assert.Contains(t, out, "Kyoto")
	assert.Contains(t, out, "$20")
}

func ids(foods []model.Food) []string {
	out := make([]string, len(foods))
	for i, f := range foods {
		out[i] = f.ID
	}
	return out
}
