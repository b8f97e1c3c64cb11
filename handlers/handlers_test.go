package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/icco/podcast/lib/db/dbtest"
	"github.com/icco/podcast/lib/store"
	"github.com/icco/podcast/lib/types"
	"github.com/icco/podcast/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	gormDB := dbtest.Open(t)
	s := store.New(gormDB, dbtest.Logger())
	require.NoError(t, s.Seed(context.Background()))
	return NewRouter(s), gormDB
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func TestIndex(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Welcome to the Podcast API"}`, w.Body.String())
}

func TestGetEpisodes(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/episodes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var episodes []map[string]interface{}
	decode(t, w, &episodes)
	require.Len(t, episodes, 4)
	assert.Equal(t, map[string]interface{}{"id": 1.0, "date": "1/11/99", "number": 1.0}, episodes[0])
	for _, e := range episodes {
		assert.NotContains(t, e, "appearances")
	}
}

func TestGetEpisode(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/episodes/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var episode EpisodeDetail
	decode(t, w, &episode)
	assert.Equal(t, uint(1), episode.ID)
	assert.Equal(t, 1, episode.Number)
	require.Len(t, episode.Appearances, 2)
	require.NotNil(t, episode.Appearances[0].Guest)
	assert.Equal(t, "Michael J. Fox", episode.Appearances[0].Guest.Name)
	assert.Equal(t, uint(1), episode.Appearances[0].EpisodeID)

	// Nested guests are summaries; they never carry appearances back.
	var raw map[string]interface{}
	decode(t, w, &raw)
	guest := raw["appearances"].([]interface{})[0].(map[string]interface{})["guest"].(map[string]interface{})
	assert.NotContains(t, guest, "appearances")
}

func TestGetEpisodeNotFound(t *testing.T) {
	h, _ := newTestServer(t)

	for _, path := range []string{"/episodes/9999", "/episodes/abc", "/episodes/0"} {
		w := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error": "Episode not found"}`, w.Body.String(), path)
	}
}

func TestDeleteEpisode(t *testing.T) {
	h, gormDB := newTestServer(t)

	w := do(t, h, http.MethodDelete, "/episodes/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, h, http.MethodGet, "/episodes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var n int64
	require.NoError(t, gormDB.Model(&models.Appearance{}).Where("episode_id = ?", 1).Count(&n).Error)
	assert.Zero(t, n)

	w = do(t, h, http.MethodDelete, "/episodes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Episode not found"}`, w.Body.String())
}

func TestGetGuests(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/guests", "")
	require.Equal(t, http.StatusOK, w.Code)

	var guests []map[string]interface{}
	decode(t, w, &guests)
	require.Len(t, guests, 4)
	assert.Equal(t, map[string]interface{}{"id": 1.0, "name": "Michael J. Fox", "occupation": "actor"}, guests[0])
}

func TestCreateAppearance(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodPost, "/appearances", `{"rating": 4, "episode_id": 1, "guest_id": 1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var appearance AppearanceDetail
	decode(t, w, &appearance)
	assert.NotZero(t, appearance.ID)
	assert.Equal(t, 4, appearance.Rating)
	assert.Equal(t, uint(1), appearance.EpisodeID)
	assert.Equal(t, uint(1), appearance.GuestID)
	require.NotNil(t, appearance.Episode)
	assert.Equal(t, 1, appearance.Episode.Number)
	require.NotNil(t, appearance.Guest)
	assert.Equal(t, "Michael J. Fox", appearance.Guest.Name)

	w = do(t, h, http.MethodGet, "/episodes/1", "")
	var episode EpisodeDetail
	decode(t, w, &episode)
	assert.Len(t, episode.Appearances, 3)
}

func TestCreateAppearanceValidationErrors(t *testing.T) {
	h, gormDB := newTestServer(t)

	tests := map[string]struct {
		body string
		want []string
	}{
		"rating too high":   {`{"rating": 6, "episode_id": 1, "guest_id": 1}`, []string{"Rating must be between 1 and 5"}},
		"rating too low":    {`{"rating": 0, "episode_id": 1, "guest_id": 1}`, []string{"Rating must be between 1 and 5"}},
		"unknown episode":   {`{"rating": 3, "episode_id": 9999, "guest_id": 1}`, []string{"Episode 9999 not found"}},
		"unknown guest":     {`{"rating": 3, "episode_id": 1, "guest_id": 9999}`, []string{"Guest 9999 not found"}},
		"malformed body":    {`{"rating": `, nil},
		"missing fields":    {`{}`, nil},
		"wrong field types": {`{"rating": "4", "episode_id": 1, "guest_id": 1}`, nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/appearances", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Errors []string `json:"errors"`
			}
			decode(t, w, &body)
			require.NotEmpty(t, body.Errors)
			if tt.want != nil {
				assert.Equal(t, tt.want, body.Errors)
			}
		})
	}

	var n int64
	require.NoError(t, gormDB.Model(&models.Appearance{}).Count(&n).Error)
	assert.Equal(t, int64(6), n)
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
}

// failingStore fails every call with err.
type failingStore struct {
	err error
}

func (f failingStore) ListEpisodes(context.Context) ([]models.Episode, error) {
	return nil, f.err
}

func (f failingStore) GetEpisode(context.Context, uint) (*models.Episode, error) {
	return nil, f.err
}

func (f failingStore) DeleteEpisode(context.Context, uint) error {
	return f.err
}

func (f failingStore) ListGuests(context.Context) ([]models.Guest, error) {
	return nil, f.err
}

func (f failingStore) CreateAppearance(context.Context, int, uint, uint) (*models.Appearance, error) {
	return nil, f.err
}

func (f failingStore) Ping(context.Context) error {
	return f.err
}

func (f failingStore) Stats(context.Context) (*types.StatsData, error) {
	return nil, f.err
}

func TestStoreFailures(t *testing.T) {
	h := NewRouter(failingStore{err: errors.New("disk I/O error")})

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/episodes"},
		{http.MethodGet, "/episodes/1"},
		{http.MethodDelete, "/episodes/1"},
		{http.MethodGet, "/guests"},
	} {
		w := do(t, h, tc.method, tc.path, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.path)
		assert.JSONEq(t, `{"error": "Internal server error"}`, w.Body.String(), tc.path)
	}

	w := do(t, h, http.MethodPost, "/appearances", `{"rating": 3, "episode_id": 1, "guest_id": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors": ["Validation errors"]}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
