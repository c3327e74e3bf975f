package mockapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"foodwagen/internal/api"
	"foodwagen/internal/db"
	"foodwagen/internal/logging"
	"foodwagen/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, seed bool) (*httptest.Server, *sql.DB) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "mockapi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	if seed {
		_, err := db.Seed(database, FoodResource, DefaultFoods)
		require.NoError(t, err)
	}

	srv := httptest.NewServer(NewServer(database, []string{FoodResource}, logging.Discard()).Router())
	t.Cleanup(srv.Close)
	return srv, database
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_ListSeeded(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/Food", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, len(DefaultFoods))
	assert.Equal(t, "1", items[0]["id"])
	assert.Equal(t, "Bow Lasagna", items[0]["food_name"])
	assert.NotEmpty(t, items[0]["createdAt"])
}

func TestServer_ListSearch(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/Food?search=Pancake", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Pancake", items[0]["name"])
}

func TestServer_EmptyListIsArray(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/Food", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestServer_CreateGetUpdateDelete(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/Food", `{"food_name":"Burger","price":"8"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	id := created["id"].(string)

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/Food/"+id, `{"price":"9"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "9", updated["price"])
	assert.Equal(t, "Burger", updated["food_name"])

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/Food/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/Food/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/Food/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, `"Not found"`, strings.TrimSpace(string(body)))
}

func TestServer_NotFoundCases(t *testing.T) {
	srv, _ := newTestServer(t, false)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"unknown resource", http.MethodGet, "/Drinks"},
		{"non numeric id", http.MethodGet, "/Food/abc"},
		{"missing id update", http.MethodPut, "/Food/42"},
		{"missing id delete", http.MethodDelete, "/Food/42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, tt.method, srv.URL+tt.path, "{}")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, `"Not found"`, strings.TrimSpace(string(body)))
		})
	}
}

func TestServer_BadBody(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/Food", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Body must be a JSON object")
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestServer_StorageErrorIs500(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT id, resource, data, created_at").
		WillReturnError(errors.New("disk I/O error"))

	handler := NewServer(mockDB, []string{FoodResource}, logging.Discard()).Router()
	req := httptest.NewRequest(http.MethodGet, "/Food", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The app's client against the stand-in, end to end.
func TestServer_WithClient(t *testing.T) {
	srv, _ := newTestServer(t, true)
	client := api.NewClient(srv.URL)
	ctx := context.Background()

	foods, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, foods, len(DefaultFoods))

	pancake := foods[2]
	assert.Equal(t, "Pancake", pancake.Name)
	assert.Equal(t, 5.0, pancake.Rating)
	assert.Equal(t, "1.99", pancake.Price)
	require.NotNil(t, pancake.Restaurant)
	assert.Equal(t, model.StatusOpen, pancake.Restaurant.Status)

	smoothie := foods[1]
	assert.Equal(t, 4.0, smoothie.Rating)
	assert.Equal(t, "5.99", smoothie.Price)
	assert.Equal(t, model.StatusClosed, smoothie.Restaurant.Status)

	assert.Nil(t, foods[4].Restaurant)

	created, err := client.Create(ctx, model.FoodDraft{
		Name:       "Ramen",
		Rating:     4.5,
		Price:      "11",
		Restaurant: &model.Restaurant{Name: "Ichiran", Status: model.StatusOpen},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ramen", created.Name)
	require.NotNil(t, created.Restaurant)
	assert.Equal(t, "Ichiran", created.Restaurant.Name)

	price := "12"
	updated, err := client.Update(ctx, created.ID, model.FoodPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "12", updated.Price)
	assert.Equal(t, "Ramen", updated.Name)

	require.NoError(t, client.Delete(ctx, created.ID))

	err = client.Delete(ctx, created.ID)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Not found", statusErr.Message)
}
