package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	bookingModels "github.com/kameqazi1/Manaakhah-sub002/internal/service/bookings/models"
	createBooking "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/create_booking"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

const validBody = `{"businessId":"biz-1","serviceType":"Haircut","appointmentDate":"2025-01-14","appointmentTime":"10:00","duration":30}`

func serve(h *Handler, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	now := time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC)
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	booking := domain.NewPendingBooking("bk-1", "biz-1", "cust-1", "Haircut", date, "10:00", 30, nil, now)

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &createBooking.Request{
		CustomerID:      "cust-1",
		BusinessID:      "biz-1",
		ServiceType:     "Haircut",
		Date:            date,
		Time:            "10:00",
		DurationMinutes: 30,
	}).Return(&createBooking.Response{Booking: booking}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "cust-1", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got bookingModels.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "bk-1", got.ID)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, "2025-01-14", got.AppointmentDate)
	assert.Equal(t, "10:00", got.AppointmentTime)
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, "PENDING", got.StatusHistory[0].Status)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		ucErr      error
		wantStatus int
		wantMsg    string
	}{
		{name: "no identity", body: validBody, wantStatus: http.StatusUnauthorized, wantMsg: msgMissingUserID},
		{name: "malformed body", userID: "cust-1", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidRequestBody},
		{name: "bad date", userID: "cust-1", body: `{"businessId":"biz-1","appointmentDate":"14/01/2025","appointmentTime":"10:00"}`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDate},
		{name: "bad time", userID: "cust-1", body: `{"businessId":"biz-1","appointmentDate":"2025-01-14","appointmentTime":"25:00"}`, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidTime},
		{name: "validation", userID: "cust-1", body: validBody, ucErr: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidInput},
		{name: "in past", userID: "cust-1", body: validBody, ucErr: createBooking.ErrAppointmentInPast, wantStatus: http.StatusBadRequest, wantMsg: msgAppointmentInPast},
		{name: "business missing", userID: "cust-1", body: validBody, ucErr: createBooking.ErrBusinessNotFound, wantStatus: http.StatusNotFound, wantMsg: msgBusinessNotFound},
		{name: "self booking", userID: "owner-1", body: validBody, ucErr: createBooking.ErrSelfBooking, wantStatus: http.StatusForbidden, wantMsg: msgSelfBooking},
		{name: "closed", userID: "cust-1", body: validBody, ucErr: createBooking.ErrBusinessClosed, wantStatus: http.StatusBadRequest, wantMsg: msgBusinessClosed},
		{name: "off grid", userID: "cust-1", body: validBody, ucErr: createBooking.ErrInvalidTimeSlot, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidTimeSlot},
		{name: "conflict", userID: "cust-1", body: validBody, ucErr: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict, wantMsg: msgSlotNotAvailable},
		{name: "internal", userID: "cust-1", body: validBody, ucErr: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(NewHandler(uc, logger.Nop()), tt.userID, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
			uc.AssertExpectations(t)
		})
	}
}
