package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	getAvailableSlots "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_available_slots"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getAvailableSlots.Response), args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": "biz-1"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Slots(t *testing.T) {
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{BusinessID: "biz-1", Date: date, ServiceDuration: 30}).
		Return(&getAvailableSlots.Response{
			Date:       date,
			BusinessID: "biz-1",
			IsOpen:     true,
			Slots: []domain.Slot{
				{Time: "09:00", Available: true},
				{Time: "10:00", Available: false, Reason: domain.SlotReasonBooked},
			},
		}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "/x?date=2025-01-14&duration=30")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"date":"2025-01-14","businessId":"biz-1","isOpen":true,
		"slots":[{"time":"09:00","available":true},{"time":"10:00","available":false,"reason":"Already booked"}]
	}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestHandle_ClosedDayIsNotAnError(t *testing.T) {
	date := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&getAvailableSlots.Response{Date: date, BusinessID: "biz-1", Message: "Business is closed on this day", Slots: []domain.Slot{}}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "/x?date=2025-01-12&duration=30")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-01-12","businessId":"biz-1","isOpen":false,"message":"Business is closed on this day","slots":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		ucErr      error
		wantStatus int
		wantMsg    string
	}{
		{name: "missing date", target: "/x?duration=30", wantStatus: http.StatusBadRequest, wantMsg: msgMissingDate},
		{name: "bad date", target: "/x?date=2025-13-01&duration=30", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDate},
		{name: "missing duration", target: "/x?date=2025-01-14", wantStatus: http.StatusBadRequest, wantMsg: msgMissingDuration},
		{name: "non numeric duration", target: "/x?date=2025-01-14&duration=abc", wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDuration},
		{name: "duration out of range", target: "/x?date=2025-01-14&duration=5", ucErr: getAvailableSlots.ErrInvalidDuration, wantStatus: http.StatusBadRequest, wantMsg: msgInvalidDuration},
		{name: "past date", target: "/x?date=2020-01-14&duration=30", ucErr: getAvailableSlots.ErrInvalidDate, wantStatus: http.StatusBadRequest, wantMsg: msgDateInPast},
		{name: "business not found", target: "/x?date=2025-01-14&duration=30", ucErr: getAvailableSlots.ErrBusinessNotFound, wantStatus: http.StatusNotFound, wantMsg: msgBusinessNotFound},
		{name: "internal", target: "/x?date=2025-01-14&duration=30", ucErr: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(NewHandler(uc, logger.Nop()), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.wantMsg)
			}
			uc.AssertExpectations(t)
		})
	}
}
