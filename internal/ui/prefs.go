package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"foodwagen/internal/model"
)

// ViewMode selects how the meal list is laid out.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// TablePrefs stores list view preferences.
type TablePrefs struct {
	SortKey      string `json:"sort_key"`
	SortDesc     bool   `json:"sort_desc"`
	ActiveColumn string `json:"active_column"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	View     ViewMode           `json:"view"`
	Delivery model.DeliveryMode `json:"delivery"`
	Table    TablePrefs         `json:"table"`
}

func defaultUIPreferences() UIPreferences {
	return UIPreferences{
		View:     ViewGrid,
		Delivery: model.DeliveryModeDelivery,
	}
}

// PrefsPath returns the preferences file inside configDir.
func PrefsPath(configDir string) string {
	return filepath.Join(configDir, "ui_prefs.json")
}

func loadUIPreferences(path string) UIPreferences {
	prefs := defaultUIPreferences()
	if path == "" {
		return prefs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		return defaultUIPreferences()
	}
	if prefs.View != ViewList {
		prefs.View = ViewGrid
	}
	if prefs.Delivery != model.DeliveryModePickup {
		prefs.Delivery = model.DeliveryModeDelivery
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
