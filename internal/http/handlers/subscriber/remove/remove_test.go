package remove

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-subscribers/internal/services/subscriber"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   "3",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, 3).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"deleted_id":3}}`,
		},
		{
			name:           "некорректный id",
			id:             "three",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "абонент не найден",
			id:   "8",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, 8).Return(fmt.Errorf("op: %w", subscriber.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"subscriber not found"}`,
		},
		{
			name: "ошибка сохранения",
			id:   "3",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, 3).Return(fmt.Errorf("op: %w", subscriber.ErrPersistence))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"Error","error":"failed to save data"}`,
		},
		{
			name: "прочая ошибка",
			id:   "3",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, 3).Return(errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to delete subscriber"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodDelete, "/subscribers/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
