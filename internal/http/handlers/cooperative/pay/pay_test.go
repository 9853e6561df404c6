package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Pay(ctx context.Context, userUID, packageID string, amount int64) (*models.CooperativeReceipt, error) {
	args := m.Called(ctx, userUID, packageID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CooperativeReceipt), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, body any, userUID string) *http.Request {
	var bodyBytes []byte
	switch v := body.(type) {
	case string:
		bodyBytes = []byte(v)
	default:
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		bodyBytes = b
	}

	req := httptest.NewRequest(http.MethodPost, "/cooperative/pkg-1/pay", bytes.NewReader(bodyBytes))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "pkg-1")

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
	if userUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
	}
	return req.WithContext(ctx)
}

func TestCooperativePayHandler_ServeHTTP(t *testing.T) {
	receipt := &models.CooperativeReceipt{
		Transaction:     &models.Transaction{ID: "t-1", Amount: -10000},
		NextPaymentDate: time.Now().AddDate(0, 0, 7),
		PoolAmount:      160000,
	}

	tests := []struct {
		name           string
		requestBody    any
		userUID        string
		setupMocks     func(s *ServiceMock)
		wantStatusCode int
	}{
		{
			name:        "valid payment",
			requestBody: Request{Amount: 10000},
			userUID:     "user-1",
			setupMocks: func(s *ServiceMock) {
				s.On("Pay", mock.Anything, "user-1", "pkg-1", int64(10000)).Return(receipt, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "zero amount fails validation",
			requestBody:    Request{Amount: 0},
			userUID:        "user-1",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:        "amount mismatch maps to 400",
			requestBody: Request{Amount: 9999},
			userUID:     "user-1",
			setupMocks: func(s *ServiceMock) {
				s.On("Pay", mock.Anything, "user-1", "pkg-1", int64(9999)).
					Return(nil, &domain.AmountMismatchError{Expected: 10000, Got: 9999}).Once()
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "early payment maps to 400",
			requestBody: Request{Amount: 10000},
			userUID:     "user-1",
			setupMocks: func(s *ServiceMock) {
				s.On("Pay", mock.Anything, "user-1", "pkg-1", int64(10000)).
					Return(nil, domain.ErrNotDue).Once()
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "not a member maps to 403",
			requestBody: Request{Amount: 10000},
			userUID:     "user-1",
			setupMocks: func(s *ServiceMock) {
				s.On("Pay", mock.Anything, "user-1", "pkg-1", int64(10000)).
					Return(nil, domain.ErrNotMember).Once()
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "missing user uid",
			requestBody:    Request{Amount: 10000},
			userUID:        "",
			setupMocks:     func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			tt.setupMocks(serviceMock)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tt.requestBody, tt.userUID))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			serviceMock.AssertExpectations(t)
		})
	}
}
