package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-subscribers/internal/config"
	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/metrics"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
	"github.com/magabrotheeeer/salon-subscribers/internal/storage/memory"
)

func newRouter(t *testing.T) (http.Handler, *memory.Storage, string) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	m := metrics.New(prometheus.NewRegistry())

	service := subscriber.New(store, log, m, subscriber.Options{Version: "2.0", SeedSampleData: true})
	require.NoError(t, service.Load(context.Background()))

	dir := t.TempDir()
	runner := export.NewRunner(log, export.DirDelivery{Dir: dir}, service, m, export.Meta{AppName: "Elite Salon", Version: "2.0"}, 0)

	r := chi.NewRouter()
	RegisterRoutes(r, log, config.RateLimit{RPS: 1000, Burst: 1000}, service, runner, store)
	return r, store, dir
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, rd))
	return w
}

func TestRoutes_SubscriberLifecycle(t *testing.T) {
	h, store, _ := newRouter(t)

	w := do(t, h, http.MethodGet, "/api/v1/subscribers?sort=name", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCount":3`)

	today := time.Now().Format("2006-01-02")
	w = do(t, h, http.MethodPost, "/api/v1/subscribers",
		`{"name":"Alice","phone":"+1-555-1111","subscriptionType":"Monthly","startDate":"`+today+`","amount":"1200","paymentMethod":"Cash"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":4`)
	assert.Contains(t, w.Body.String(), `"changesSinceExport":1`)

	w = do(t, h, http.MethodGet, "/api/v1/subscribers/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"amount":1200`)

	w = do(t, h, http.MethodPost, "/api/v1/subscribers", `{"name":"","phone":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"fields"`)

	w = do(t, h, http.MethodDelete, "/api/v1/subscribers/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, h, http.MethodDelete, "/api/v1/subscribers/4", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	snap, found, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, snap.Subscribers, 3)
	assert.Equal(t, 2, snap.ChangesSinceExport)
}

func TestRoutes_ExportCycleResetsChanges(t *testing.T) {
	h, _, dir := newRouter(t)

	w := do(t, h, http.MethodPut, "/api/v1/subscribers/1",
		`{"name":"Sarah Johnson","phone":"+1-555-0123","subscriptionType":"Yearly","startDate":"2025-01-15","amount":1200,"paymentMethod":"Card"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/v1/changes", "")
	assert.Contains(t, w.Body.String(), "1 changes detected since last export.")

	w = do(t, h, http.MethodGet, "/api/v1/exports/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	w = do(t, h, http.MethodPost, "/api/v1/exports", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data export.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Files, 4)
	assert.FileExists(t, dir+"/"+resp.Data.Files[0].Name)

	w = do(t, h, http.MethodGet, "/api/v1/changes", "")
	assert.Contains(t, w.Body.String(), "No changes detected since last export.")

	w = do(t, h, http.MethodGet, "/api/v1/changes/log", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoutes_Misc(t *testing.T) {
	h, _, _ := newRouter(t)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/dashboard", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/settings", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodGet, "/api/v1/subscribers?page=5", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/exports/pdf", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)
}
