package model

import "time"

// RestaurantStatus is the open/closed state shown on a card badge.
type RestaurantStatus string

const (
	StatusOpen   RestaurantStatus = "Open Now"
	StatusClosed RestaurantStatus = "Closed"
)

// Restaurant is the optional restaurant block attached to a food.
type Restaurant struct {
	Name   string           `json:"name"`
	Logo   string           `json:"logo"`
	Status RestaurantStatus `json:"status"`
}

// IsOpen reports whether the restaurant is open. A nil restaurant is never
// reported as closed by callers; they should check for nil first.
func (r *Restaurant) IsOpen() bool {
	return r != nil && r.Status == StatusOpen
}

// Food is the normalized food record used everywhere past the api package.
type Food struct {
	ID         string      `json:"id"`
	Name       string      `json:"foodName"`
	Rating     float64     `json:"foodRating"`
	Image      string      `json:"foodImage"`
	Price      string      `json:"price"`
	Restaurant *Restaurant `json:"restaurant,omitempty"`
}

// Draft returns the food without its identity, for create bodies.
func (f Food) Draft() FoodDraft {
	d := FoodDraft{
		Name:   f.Name,
		Rating: f.Rating,
		Image:  f.Image,
		Price:  f.Price,
	}
	if f.Restaurant != nil {
		r := *f.Restaurant
		d.Restaurant = &r
	}
	return d
}

// FoodDraft represents data for creating a food.
type FoodDraft struct {
	Name       string
	Rating     float64
	Image      string
	Price      string
	Restaurant *Restaurant
}

// FoodPatch represents data for updating a food. Nil fields are left out of
// the request body.
type FoodPatch struct {
	Name       *string
	Rating     *float64
	Image      *string
	Price      *string
	Restaurant *Restaurant
}

// PatchFromDraft builds a patch that sets every field of the draft.
func PatchFromDraft(d FoodDraft) FoodPatch {
	p := FoodPatch{
		Name:   &d.Name,
		Rating: &d.Rating,
		Image:  &d.Image,
		Price:  &d.Price,
	}
	if d.Restaurant != nil {
		r := *d.Restaurant
		p.Restaurant = &r
	}
	return p
}

// LoadStatus is the lifecycle of the food list for one mount.
type LoadStatus int

const (
	LoadIdle LoadStatus = iota
	LoadLoading
	LoadReady
	LoadFailed
)

func (s LoadStatus) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	default:
		return "idle"
	}
}

// NotificationKind selects toast styling.
type NotificationKind int

const (
	NotifySuccess NotificationKind = iota
	NotifyError
)

// Notification is a non-blocking user-visible message.
type Notification struct {
	Kind NotificationKind
	Text string
	At   time.Time
}

// DeliveryMode is the header toggle. It does not change what is fetched.
type DeliveryMode string

const (
	DeliveryModeDelivery DeliveryMode = "delivery"
	DeliveryModePickup   DeliveryMode = "pickup"
)
