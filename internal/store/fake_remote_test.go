package store

import (
	"context"
	"sync"
	"testing"

	"foodwagen/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote hands every call to the test over a channel and blocks until the
// test answers it.
type fakeRemote struct {
	t     *testing.T
	Calls chan any
}

func newFakeRemote(t *testing.T) *fakeRemote {
	return &fakeRemote{t: t, Calls: make(chan any)}
}

type listCall struct{}
type listResp struct {
	foods []model.Food
	err   error
}

func (r *fakeRemote) List(ctx context.Context) ([]model.Food, error) {
	r.Calls <- &listCall{}
	resp := (<-r.Calls).(*listResp)
	return resp.foods, resp.err
}

type createCall struct{ draft model.FoodDraft }
type foodResp struct {
	food model.Food
	err  error
}

func (r *fakeRemote) Create(ctx context.Context, draft model.FoodDraft) (model.Food, error) {
	r.Calls <- &createCall{draft}
	resp := (<-r.Calls).(*foodResp)
	return resp.food, resp.err
}

type updateCall struct {
	id    string
	patch model.FoodPatch
}

func (r *fakeRemote) Update(ctx context.Context, id string, patch model.FoodPatch) (model.Food, error) {
	r.Calls <- &updateCall{id, patch}
	resp := (<-r.Calls).(*foodResp)
	return resp.food, resp.err
}

type deleteCall struct{ id string }
type deleteResp struct{ err error }

func (r *fakeRemote) Delete(ctx context.Context, id string) error {
	r.Calls <- &deleteCall{id}
	return (<-r.Calls).(*deleteResp).err
}

func (r *fakeRemote) AssertList(foods []model.Food, err error) {
	_, ok := (<-r.Calls).(*listCall)
	assert.True(r.t, ok, "expected a list call")
	r.Calls <- &listResp{foods, err}
}

func (r *fakeRemote) AssertCreate(draft model.FoodDraft, food model.Food, err error) {
	call, ok := (<-r.Calls).(*createCall)
	if assert.True(r.t, ok, "expected a create call") {
		assert.Equal(r.t, draft, call.draft)
	}
	r.Calls <- &foodResp{food, err}
}

func (r *fakeRemote) AssertUpdate(id string, food model.Food, err error) {
	call, ok := (<-r.Calls).(*updateCall)
	if assert.True(r.t, ok, "expected an update call") {
		assert.Equal(r.t, id, call.id)
	}
	r.Calls <- &foodResp{food, err}
}

func (r *fakeRemote) AssertDelete(id string, err error) {
	call, ok := (<-r.Calls).(*deleteCall)
	if assert.True(r.t, ok, "expected a delete call") {
		assert.Equal(r.t, id, call.id)
	}
	r.Calls <- &deleteResp{err}
}

func (r *fakeRemote) Close() {
	close(r.Calls)
}

// run answers calls on a goroutine and returns a wait func that blocks until
// the script finished.
func (r *fakeRemote) run(script func()) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		script()
	}()
	return func() { <-done }
}

type recorder struct {
	mu    sync.Mutex
	items []model.Notification
}

func (r *recorder) Notify(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Text)
	}
	return out
}

func (r *recorder) last(t *testing.T) model.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.items)
	return r.items[len(r.items)-1]
}
