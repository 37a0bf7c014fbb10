package list

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-subscribers/internal/models"
	"github.com/magabrotheeeer/salon-subscribers/internal/services/view"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) View(q models.ViewQuery, asOf time.Time) (view.Result, error) {
	args := m.Called(q, asOf)
	return args.Get(0).(view.Result), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "параметры по умолчанию",
			url:  "/subscribers",
			setupMock: func(m *MockService) {
				m.On("View", models.ViewQuery{SortField: "name", SortDir: "asc", Page: 1}, now).
					Return(view.Result{Items: []models.Subscriber{{ID: 1}}, Page: 1, PageSize: 10, TotalPages: 1, TotalCount: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"totalCount":1`,
		},
		{
			name: "все параметры",
			url:  "/subscribers?search=maria&type=Quarterly&status=expiring&sort=startDate&dir=desc&page=2&page_size=5",
			setupMock: func(m *MockService) {
				want := models.ViewQuery{
					Search:    "maria",
					Type:      "Quarterly",
					Status:    models.StatusExpiring,
					SortField: "startDate",
					SortDir:   "desc",
					Page:      2,
					PageSize:  5,
				}
				m.On("View", want, now).Return(view.Result{Items: []models.Subscriber{}, Page: 2, PageSize: 5, TotalPages: 2, TotalCount: 6}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"page":2`,
		},
		{
			name:           "неизвестный статус",
			url:            "/subscribers?status=paused",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid status"`,
		},
		{
			name:           "неизвестное поле сортировки",
			url:            "/subscribers?sort=amount",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid sort field"`,
		},
		{
			name:           "нечисловая страница",
			url:            "/subscribers?page=two",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid page"`,
		},
		{
			name: "страница вне диапазона",
			url:  "/subscribers?page=9",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, now).Return(view.Result{Page: 9, TotalPages: 2, TotalCount: 12}, view.ErrPageOutOfRange)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"total_pages":2`,
		},
		{
			name: "ошибка сервиса",
			url:  "/subscribers",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, now).Return(view.Result{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to list"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			h := New(logger, mockService)
			h.now = func() time.Time { return now }

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
