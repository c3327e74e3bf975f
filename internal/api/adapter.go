package api

import (
	"math"
	"strconv"
	"strings"

	"foodwagen/internal/model"
)

const (
	// PlaceholderImage is used when a record carries no usable image.
	PlaceholderImage = "https://via.placeholder.com/400x300?text=No+Image"
	// PlaceholderLogo is used when a restaurant carries no usable logo.
	PlaceholderLogo = "https://via.placeholder.com/40"

	unknownMeal       = "Unknown Meal"
	unknownRestaurant = "Unknown Restaurant"
	defaultPrice      = "0.00"
)

// RawRecord is an upstream record before normalization. Field names vary
// between records; only this file reads them.
type RawRecord map[string]any

// Normalize maps an upstream record onto the internal food shape.
// It never fails: missing or misnamed fields fall back to defaults.
func Normalize(raw RawRecord) model.Food {
	food := model.Food{
		ID:     stringValue(raw["id"]),
		Name:   firstString(raw, unknownMeal, "food_name", "name"),
		Rating: firstNumber(raw, "food_rating", "rating"),
		Image:  firstString(raw, PlaceholderImage, "food_image", "image", "avatar"),
		Price:  firstString(raw, defaultPrice, "price", "Price"),
	}

	if present(raw["restaurant_name"]) || present(raw["restaurant_logo"]) {
		status := model.StatusClosed
		if firstString(raw, string(model.StatusClosed), "restaurant_status", "status") == string(model.StatusOpen) || truthy(raw["open"]) {
			status = model.StatusOpen
		}
		food.Restaurant = &model.Restaurant{
			Name:   firstString(raw, unknownRestaurant, "restaurant_name", "name"),
			Logo:   firstString(raw, PlaceholderLogo, "restaurant_image", "restaurant_logo", "logo"),
			Status: status,
		}
	}

	return food
}

// NormalizeAll normalizes a list of upstream records, keeping their order.
func NormalizeAll(raws []RawRecord) []model.Food {
	foods := make([]model.Food, 0, len(raws))
	for _, raw := range raws {
		foods = append(foods, Normalize(raw))
	}
	return foods
}

// Denormalize maps a food back to the upstream naming convention.
// The id is not part of the body.
func Denormalize(f model.Food) map[string]any {
	return DenormalizeDraft(f.Draft())
}

// DenormalizeDraft builds a create body. Empty strings and a nil restaurant
// are omitted; the rating is always sent.
func DenormalizeDraft(d model.FoodDraft) map[string]any {
	body := map[string]any{
		"food_rating": d.Rating,
	}
	putString(body, "food_name", d.Name)
	putString(body, "food_image", d.Image)
	putString(body, "price", d.Price)
	putRestaurant(body, d.Restaurant)
	return body
}

// DenormalizePatch builds an update body containing only the fields set on
// the patch.
func DenormalizePatch(p model.FoodPatch) map[string]any {
	body := map[string]any{}
	if p.Name != nil {
		putString(body, "food_name", *p.Name)
	}
	if p.Rating != nil {
		body["food_rating"] = *p.Rating
	}
	if p.Image != nil {
		putString(body, "food_image", *p.Image)
	}
	if p.Price != nil {
		putString(body, "price", *p.Price)
	}
	putRestaurant(body, p.Restaurant)
	return body
}

func putRestaurant(body map[string]any, r *model.Restaurant) {
	if r == nil {
		return
	}
	putString(body, "restaurant_name", r.Name)
	putString(body, "restaurant_image", r.Logo)
	putString(body, "restaurant_status", string(r.Status))
}

func putString(body map[string]any, key, value string) {
	if value != "" {
		body[key] = value
	}
}

// firstString returns the first present value among keys, as a string.
func firstString(raw RawRecord, fallback string, keys ...string) string {
	for _, k := range keys {
		if v := raw[k]; present(v) {
			return stringValue(v)
		}
	}
	return fallback
}

// firstNumber returns the first value among keys that coerces to a finite
// number.
func firstNumber(raw RawRecord, keys ...string) float64 {
	for _, k := range keys {
		if n, ok := numberValue(raw[k]); ok {
			return n
		}
	}
	return 0
}

// present mirrors upstream truthiness: nil, "", 0 and false are absent.
func present(v any) bool {
	return truthy(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func numberValue(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
