package store

import (
	"strings"

	"foodwagen/internal/model"
)

// Filter returns the foods matching query, in their original order.
// A blank query matches everything.
func Filter(foods []model.Food, query string) []model.Food {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Food, 0, len(foods))
	for _, f := range foods {
		if q == "" || matches(f, q) {
			out = append(out, f)
		}
	}
	return out
}

// Matches reports whether food matches query by name or restaurant name,
// case-insensitively. A blank query matches.
func Matches(food model.Food, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return q == "" || matches(food, q)
}

// matches expects q already trimmed and lower-cased.
func matches(food model.Food, q string) bool {
	if strings.Contains(strings.ToLower(food.Name), q) {
		return true
	}
	return food.Restaurant != nil && strings.Contains(strings.ToLower(food.Restaurant.Name), q)
}
