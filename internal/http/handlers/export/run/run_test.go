package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-subscribers/internal/export"
	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Snapshot() models.Snapshot {
	return m.Called().Get(0).(models.Snapshot)
}

func (m *MockService) Settings() models.Settings {
	return m.Called().Get(0).(models.Settings)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) ExportAll(ctx context.Context, snap models.Snapshot, opts export.Options) (export.Summary, error) {
	args := m.Called(ctx, snap, opts.Compress)
	return args.Get(0).(export.Summary), args.Error(1)
}

func TestRunHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := models.Snapshot{Subscribers: []models.Subscriber{{ID: 1}}, ChangesSinceExport: 2}
	compressed := models.DefaultSettings()
	compressed.CompressExports = true

	tests := []struct {
		name           string
		settings       models.Settings
		result         export.Summary
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешный цикл",
			settings:       compressed,
			result:         export.Summary{ExportID: "e-1", Files: []export.File{{Name: "subscribers_2025-09-01.json.gz"}}},
			expectedStatus: http.StatusOK,
			expectedBody:   `"exportId":"e-1"`,
		},
		{
			name:           "счётчик не сохранён",
			settings:       models.DefaultSettings(),
			result:         export.Summary{ExportID: "e-2"},
			err:            fmt.Errorf("op: %w", subscriber.ErrPersistence),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"error":"failed to save export state"`,
		},
		{
			name:           "цикл прерван",
			settings:       models.DefaultSettings(),
			err:            errors.New("disk full"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"export failed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Settings").Return(tt.settings)
			svc.On("Snapshot").Return(snap)
			exp := new(MockExporter)
			exp.On("ExportAll", mock.Anything, snap, tt.settings.CompressExports).Return(tt.result, tt.err)

			w := httptest.NewRecorder()
			New(logger, svc, exp).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/exports", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			exp.AssertExpectations(t)
		})
	}
}
