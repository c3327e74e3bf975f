package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"foodwagen/internal/api"
	"foodwagen/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []model.Food{
	{ID: "1", Name: "Pizza", Rating: 4.5, Price: "10", Restaurant: &model.Restaurant{Name: "Mario's", Status: model.StatusOpen}},
	{ID: "2", Name: "Sushi", Rating: 4, Price: "20"},
	{ID: "3", Name: "Pasta", Rating: 3, Price: "12", Restaurant: &model.Restaurant{Name: "Luigi", Status: model.StatusClosed}},
}

func loaded(t *testing.T, foods []model.Food) (*Store, *fakeRemote, *recorder) {
	t.Helper()
	remote := newFakeRemote(t)
	rec := &recorder{}
	s := New(remote, WithNotifier(rec))

	wait := remote.run(func() { remote.AssertList(foods, nil) })
	s.Load(context.Background())
	wait()

	require.Equal(t, model.LoadReady, s.Snapshot().Status)
	return s, remote, rec
}

func TestStore_LoadSuccess(t *testing.T) {
	s, _, rec := loaded(t, sample)

	st := s.Snapshot()
	assert.Equal(t, sample, st.All)
	assert.Equal(t, sample, st.Filtered)
	assert.Empty(t, st.Err)
	assert.False(t, st.LoadedAt.IsZero())
	assert.Empty(t, rec.texts())
}

func TestStore_LoadFailureIsCaptured(t *testing.T) {
	remote := newFakeRemote(t)
	rec := &recorder{}
	s := New(remote, WithNotifier(rec))
	assert.Equal(t, model.LoadIdle, s.Snapshot().Status)

	wait := remote.run(func() {
		remote.AssertList(nil, &api.StatusError{StatusCode: http.StatusInternalServerError, Message: "upstream down"})
		remote.Close()
	})
	s.Load(context.Background())
	wait()

	st := s.Snapshot()
	assert.Equal(t, model.LoadFailed, st.Status)
	assert.Equal(t, "upstream down", st.Err)
	assert.Empty(t, st.All)
	assert.Equal(t, model.NotifyError, rec.last(t).Kind)
}

func TestStore_LoadFailureFallsBackToErrorText(t *testing.T) {
	remote := newFakeRemote(t)
	s := New(remote)

	wait := remote.run(func() { remote.AssertList(nil, errors.New("network error: refused")) })
	s.Load(context.Background())
	wait()

	assert.Equal(t, "network error: refused", s.Snapshot().Err)
}

func TestStore_BlankSearchMatchesAllInOrder(t *testing.T) {
	s, _, rec := loaded(t, sample)

	assert.Equal(t, sample, s.Search(""))
	assert.Equal(t, sample, s.Search("   "))
	assert.Empty(t, rec.texts())
}

func TestStore_SearchExample(t *testing.T) {
	s, _, rec := loaded(t, []model.Food{
		{ID: "1", Name: "Pizza", Restaurant: &model.Restaurant{Name: "Mario's"}},
		{ID: "2", Name: "Sushi"},
	})

	got := s.Search("mario")
	require.Len(t, got, 1)
	assert.Equal(t, "Pizza", got[0].Name)

	got = s.Search("sushi")
	require.Len(t, got, 1)
	assert.Equal(t, "Sushi", got[0].Name)

	assert.Empty(t, s.Search("xyz"))
	assert.Equal(t, []string{`No meals found for "xyz"`}, rec.texts())
	assert.Equal(t, "xyz", s.Snapshot().Query)
}

func TestStore_SearchOnEmptyListSaysNoMeals(t *testing.T) {
	s, _, rec := loaded(t, nil)

	assert.Empty(t, s.Search("pizza"))
	assert.Equal(t, []string{"No meals available"}, rec.texts())
}

func TestMatches(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"PIZ", []string{"1"}},
		{"  pa  ", []string{"3"}},
		{"luigi", []string{"3"}},
		{"s", []string{"1", "2", "3"}},
		{"closed", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, f := range sample {
				if Matches(f, tt.query) {
					ids = append(ids, f.ID)
				}
			}
			assert.Equal(t, tt.want, ids)

			filtered := Filter(sample, tt.query)
			assert.Len(t, filtered, len(tt.want))
		})
	}
}

func TestStore_AddAppends(t *testing.T) {
	s, remote, rec := loaded(t, sample)
	draft := model.FoodDraft{Name: "Ramen", Rating: 5}
	created := model.Food{ID: "4", Name: "Ramen", Rating: 5, Price: "0.00"}

	wait := remote.run(func() { remote.AssertCreate(draft, created, nil) })
	food, err := s.Add(context.Background(), draft)
	wait()

	require.NoError(t, err)
	assert.Equal(t, created, food)

	all := s.Search("")
	assert.Len(t, all, len(sample)+1)
	assert.Equal(t, created, all[len(all)-1])

	n := rec.last(t)
	assert.Equal(t, model.NotifySuccess, n.Kind)
	assert.Equal(t, "Meal added successfully!", n.Text)
}

func TestStore_AddKeepsFilter(t *testing.T) {
	s, remote, _ := loaded(t, sample)
	s.Search("ramen")

	wait := remote.run(func() {
		remote.AssertCreate(model.FoodDraft{Name: "Ramen"}, model.Food{ID: "4", Name: "Ramen"}, nil)
	})
	_, err := s.Add(context.Background(), model.FoodDraft{Name: "Ramen"})
	wait()

	require.NoError(t, err)
	st := s.Snapshot()
	require.Len(t, st.Filtered, 1)
	assert.Equal(t, "4", st.Filtered[0].ID)
}

func TestStore_AddFailureLeavesList(t *testing.T) {
	s, remote, rec := loaded(t, sample)
	boom := &api.StatusError{StatusCode: http.StatusBadRequest, Message: "name too long"}

	wait := remote.run(func() { remote.AssertCreate(model.FoodDraft{Name: "X"}, model.Food{}, boom) })
	_, err := s.Add(context.Background(), model.FoodDraft{Name: "X"})
	wait()

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, sample, s.Snapshot().All)
	assert.Equal(t, "name too long", rec.last(t).Text)
}

func TestStore_UpdateReplacesByID(t *testing.T) {
	s, remote, rec := loaded(t, sample)
	name := "Sushi Deluxe"
	updated := model.Food{ID: "2", Name: "Sushi Deluxe", Rating: 4, Price: "20"}

	wait := remote.run(func() { remote.AssertUpdate("2", updated, nil) })
	food, err := s.Update(context.Background(), "2", model.FoodPatch{Name: &name})
	wait()

	require.NoError(t, err)
	assert.Equal(t, updated, food)

	all := s.Snapshot().All
	require.Len(t, all, 3)
	assert.Equal(t, updated, all[1])
	assert.Equal(t, sample[0], all[0])
	assert.Equal(t, "Meal updated!", rec.last(t).Text)
}

func TestStore_UpdateFailureLeavesListIdentical(t *testing.T) {
	s, remote, rec := loaded(t, sample)
	before := s.Snapshot().All
	name := "nope"

	wait := remote.run(func() { remote.AssertUpdate("1", model.Food{}, errors.New("network error: timeout")) })
	_, err := s.Update(context.Background(), "1", model.FoodPatch{Name: &name})
	wait()

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot().All)

	n := rec.last(t)
	assert.Equal(t, model.NotifyError, n.Kind)
	assert.Equal(t, "Failed to update meal", n.Text)
}

func TestStore_Delete(t *testing.T) {
	s, remote, rec := loaded(t, sample)

	wait := remote.run(func() {
		remote.AssertDelete("1", nil)
		remote.AssertDelete("2", errors.New("boom"))
	})
	require.NoError(t, s.Delete(context.Background(), "1"))
	assert.Equal(t, "Meal deleted", rec.last(t).Text)

	require.Error(t, s.Delete(context.Background(), "2"))
	assert.Equal(t, "Failed to delete meal", rec.last(t).Text)
	wait()

	all := s.Snapshot().All
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
	assert.Equal(t, "Pasta", all[1].Name)
}

func TestStore_RefetchResets(t *testing.T) {
	s, remote, _ := loaded(t, sample)
	s.Search("pizza")

	fresh := []model.Food{{ID: "9", Name: "Tacos"}}
	wait := remote.run(func() { remote.AssertList(fresh, nil) })
	s.Refetch(context.Background())
	wait()

	st := s.Snapshot()
	assert.Equal(t, model.LoadReady, st.Status)
	assert.Equal(t, fresh, st.All)
	assert.Equal(t, fresh, st.Filtered)
	assert.Empty(t, st.Query)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s, _, _ := loaded(t, sample)

	st := s.Snapshot()
	st.All[0].Name = "mutated"
	st.All[0].Restaurant.Name = "mutated"
	st.Filtered[2].Restaurant.Status = model.StatusOpen

	again := s.Snapshot()
	assert.Equal(t, "Pizza", again.All[0].Name)
	assert.Equal(t, "Mario's", again.All[0].Restaurant.Name)
	assert.Equal(t, model.StatusClosed, again.Filtered[2].Restaurant.Status)
	assert.Equal(t, "Mario's", sample[0].Restaurant.Name)
}
