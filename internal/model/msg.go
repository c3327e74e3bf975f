package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// FoodsLoadedMsg is sent when a load (or refetch) has finished, successfully
// or not. The store holds the outcome.
type FoodsLoadedMsg struct{}

// SubmitFoodMsg is sent by the form after validation passes.
// ID is empty for a new meal.
type SubmitFoodMsg struct {
	ID    string
	Draft FoodDraft
}

// FoodSavedMsg is sent when a create or update succeeded.
type FoodSavedMsg struct {
	Food      Food
	Operation string // insert, update
}

// SaveFailedMsg is sent when a create or update failed upstream. The form
// stays open so the user can retry or cancel.
type SaveFailedMsg struct {
	Err error
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// DeleteFoodMsg is sent when a delete succeeded.
type DeleteFoodMsg struct {
	ID string
}

// DeleteFailedMsg is sent when a delete failed upstream.
type DeleteFailedMsg struct {
	ID  string
	Err error
}

// NotificationMsg carries a store notification to the root model.
type NotificationMsg struct {
	Notification Notification
}

// Screen represents different app screens.
type Screen int

const (
	ScreenMeals Screen = iota
	ScreenMealDetail
	ScreenMealForm
	ScreenDeleteConfirm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeSearch
)
