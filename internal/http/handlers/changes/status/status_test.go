package status

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Changes() subscriber.ChangeStatus {
	return m.Called().Get(0).(subscriber.ChangeStatus)
}

func TestStatusHandler(t *testing.T) {
	last := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	svc := new(MockService)
	svc.On("Changes").Return(subscriber.ChangeStatus{
		ExportState: models.ExportState{LastExportTime: &last, ChangesSinceExport: 2},
		Message:     "2 changes detected since last export.",
	})

	w := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/changes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","data":{
		"lastExportTime":"2025-08-30T10:00:00Z",
		"changesSinceExport":2,
		"message":"2 changes detected since last export."
	}}`, w.Body.String())
}
