// Package store owns the canonical in-memory food list, the search query and
// the derived filtered view.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"foodwagen/internal/api"
	"foodwagen/internal/model"
)

// Remote is the upstream collection the store mutates through.
type Remote interface {
	List(ctx context.Context) ([]model.Food, error)
	Create(ctx context.Context, draft model.FoodDraft) (model.Food, error)
	Update(ctx context.Context, id string, patch model.FoodPatch) (model.Food, error)
	Delete(ctx context.Context, id string) error
}

// Notifier receives user-visible notifications. Implementations must not
// block.
type Notifier interface {
	Notify(n model.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(model.Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n model.Notification) { f(n) }

// State is a point-in-time copy of the store.
type State struct {
	Status   model.LoadStatus
	All      []model.Food
	Filtered []model.Food
	Query    string
	Err      string
	LoadedAt time.Time
}

// Store is the food state manager. It is safe for concurrent use.
type Store struct {
	remote   Remote
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	status   model.LoadStatus
	all      []model.Food
	filtered []model.Food
	query    string
	err      string
	loadedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where notifications go. Without one they are dropped.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store in the idle state.
func New(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		notifier: NotifierFunc(func(model.Notification) {}),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		status:   model.LoadIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the list. Failures are captured into the state; Load never
// returns them.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	s.status = model.LoadLoading
	s.err = ""
	s.mu.Unlock()

	foods, err := s.remote.List(ctx)
	if err != nil {
		msg := userMessage(err, "Failed to load meals")
		s.mu.Lock()
		s.status = model.LoadFailed
		s.err = msg
		s.mu.Unlock()

		s.logger.Error("load meals failed", "error", err)
		s.notify(model.NotifyError, msg)
		return
	}

	s.mu.Lock()
	s.all = foods
	s.status = model.LoadReady
	s.loadedAt = s.now()
	s.refilter()
	s.mu.Unlock()

	s.logger.Info("loaded meals", "count", len(foods))
}

// Refetch discards all client state and loads again from scratch.
func (s *Store) Refetch(ctx context.Context) {
	s.mu.Lock()
	s.status = model.LoadIdle
	s.all = nil
	s.filtered = nil
	s.query = ""
	s.err = ""
	s.loadedAt = time.Time{}
	s.mu.Unlock()

	s.logger.Info("refetching meals")
	s.Load(ctx)
}

// Search sets the query and returns the recomputed filtered view.
func (s *Store) Search(query string) []model.Food {
	s.mu.Lock()
	s.query = query
	s.refilter()
	filtered := cloneFoods(s.filtered)
	total := len(s.all)
	s.mu.Unlock()

	trimmed := strings.TrimSpace(query)
	s.logger.Debug("search", "query", query, "matches", len(filtered), "total", total)

	if trimmed != "" && len(filtered) == 0 {
		if total == 0 {
			s.notify(model.NotifyError, "No meals available")
		} else {
			s.notify(model.NotifyError, fmt.Sprintf("No meals found for %q", query))
		}
	}
	return filtered
}

// Add creates a food upstream and appends it on success.
func (s *Store) Add(ctx context.Context, draft model.FoodDraft) (model.Food, error) {
	food, err := s.remote.Create(ctx, draft)
	if err != nil {
		s.logger.Error("add meal failed", "name", draft.Name, "error", err)
		s.notify(model.NotifyError, userMessage(err, "Failed to add meal"))
		return model.Food{}, err
	}

	s.mu.Lock()
	all := make([]model.Food, 0, len(s.all)+1)
	all = append(all, s.all...)
	s.all = append(all, food)
	s.refilter()
	s.mu.Unlock()

	s.logger.Info("added meal", "id", food.ID, "name", food.Name)
	s.notify(model.NotifySuccess, "Meal added successfully!")
	return food, nil
}

// Update applies a patch upstream and replaces the item with the returned
// record on success.
func (s *Store) Update(ctx context.Context, id string, patch model.FoodPatch) (model.Food, error) {
	food, err := s.remote.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("update meal failed", "id", id, "error", err)
		s.notify(model.NotifyError, "Failed to update meal")
		return model.Food{}, err
	}

	s.mu.Lock()
	all := make([]model.Food, len(s.all))
	for i, f := range s.all {
		if f.ID == id {
			all[i] = food
			continue
		}
		all[i] = f
	}
	s.all = all
	s.refilter()
	s.mu.Unlock()

	s.logger.Info("updated meal", "id", id)
	s.notify(model.NotifySuccess, "Meal updated!")
	return food, nil
}

// Delete removes a food upstream and drops it locally on success.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.Error("delete meal failed", "id", id, "error", err)
		s.notify(model.NotifyError, "Failed to delete meal")
		return err
	}

	s.mu.Lock()
	all := make([]model.Food, 0, len(s.all))
	for _, f := range s.all {
		if f.ID != id {
			all = append(all, f)
		}
	}
	s.all = all
	s.refilter()
	s.mu.Unlock()

	s.logger.Info("deleted meal", "id", id)
	s.notify(model.NotifySuccess, "Meal deleted")
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Status:   s.status,
		All:      cloneFoods(s.all),
		Filtered: cloneFoods(s.filtered),
		Query:    s.query,
		Err:      s.err,
		LoadedAt: s.loadedAt,
	}
}

// refilter must be called with mu held for writing.
func (s *Store) refilter() {
	s.filtered = Filter(s.all, s.query)
}

func (s *Store) notify(kind model.NotificationKind, text string) {
	s.notifier.Notify(model.Notification{Kind: kind, Text: text, At: s.now()})
}

// userMessage picks the most specific readable message for err.
func userMessage(err error, fallback string) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}

func cloneFoods(foods []model.Food) []model.Food {
	if foods == nil {
		return nil
	}
	out := make([]model.Food, len(foods))
	copy(out, foods)
	for i := range out {
		if out[i].Restaurant != nil {
			r := *out[i].Restaurant
			out[i].Restaurant = &r
		}
	}
	return out
}
