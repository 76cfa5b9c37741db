package get_customer_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings/models"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

func serve(h *Handler, userID, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": "cust-1"})
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PassesStatusFilter(t *testing.T) {
	svc := &mockService{}
	status := "CONFIRMED"
	svc.On("GetCustomerBookings", mock.Anything, &models.GetCustomerBookingsRequest{
		UserID:     "cust-1",
		CustomerID: "cust-1",
		Status:     &status,
	}).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "bk-1", Status: "CONFIRMED"}}}, nil)

	rec := serve(NewHandler(svc, logger.Nop()), "cust-1", "/api/v1/users/cust-1/bookings?status=CONFIRMED")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bk-1"`)
	svc.AssertExpectations(t)
}

func TestHandle_OtherCustomerForbidden(t *testing.T) {
	svc := &mockService{}
	svc.On("GetCustomerBookings", mock.Anything, mock.Anything).Return(nil, bookings.ErrAccessDenied)

	rec := serve(NewHandler(svc, logger.Nop()), "cust-2", "/api/v1/users/cust-1/bookings")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), msgForbidden)
}
