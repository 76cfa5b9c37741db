package get_business_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings/models"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func serve(h *Handler, userID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses/biz-1/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": "biz-1"})
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest("biz-1", "owner-1", "confirmed", "2025-01-14", "true")
	require.NoError(t, err)
	assert.Equal(t, "biz-1", req.BusinessID)
	assert.Equal(t, "owner-1", req.UserID)
	require.NotNil(t, req.Status)
	assert.Equal(t, "confirmed", *req.Status)
	require.NotNil(t, req.Date)
	assert.True(t, req.Date.Equal(time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)))
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest("biz-1", "owner-1", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.Date)
	assert.False(t, req.IncludeInactive)

	_, err = ToServiceRequest("biz-1", "owner-1", "", "yesterday", "")
	assert.Error(t, err)

	_, err = ToServiceRequest("biz-1", "owner-1", "", "", "maybe")
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		query      string
		svcErr     error
		callsSvc   bool
		wantStatus int
	}{
		{name: "owner", userID: "owner-1", query: "?date=2025-01-14", callsSvc: true, wantStatus: http.StatusOK},
		{name: "no identity", wantStatus: http.StatusUnauthorized},
		{name: "bad query", userID: "owner-1", query: "?includeInactive=maybe", wantStatus: http.StatusBadRequest},
		{name: "unknown status", userID: "owner-1", query: "?status=ARCHIVED", svcErr: bookings.ErrInvalidInput, callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "not owner", userID: "cust-1", svcErr: bookings.ErrAccessDenied, callsSvc: true, wantStatus: http.StatusForbidden},
		{name: "business missing", userID: "owner-1", svcErr: bookings.ErrBusinessNotFound, callsSvc: true, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.callsSvc {
				if tt.svcErr != nil {
					svc.On("GetBusinessBookings", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
				} else {
					svc.On("GetBusinessBookings", mock.Anything, mock.Anything).
						Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)
				}
			}

			rec := serve(NewHandler(svc, logger.Nop()), tt.userID, tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
