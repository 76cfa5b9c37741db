package get_effective_hours

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
	getEffectiveHours "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_effective_hours"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getEffectiveHours.Request) (*getEffectiveHours.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getEffectiveHours.Response), args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": "biz-1"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Open(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &getEffectiveHours.Request{BusinessID: "biz-1", Date: date}).
		Return(&getEffectiveHours.Response{Hours: domain.EffectiveHours{
			Date:                date,
			DayOfWeek:           2,
			IsOpen:              true,
			StartTime:           types.TimeString("09:00"),
			EndTime:             types.TimeString("17:00"),
			SlotDurationMinutes: 30,
			BufferMinutes:       15,
		}}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/businesses/biz-1/hours?date=2025-01-14")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-01-14","dayOfWeek":2,"isOpen":true,"startTime":"09:00","endTime":"17:00","slotDuration":30,"bufferTime":15}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestHandle_Closed(t *testing.T) {
	uc := &mockUseCase{}
	reason := "Holiday"
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(&getEffectiveHours.Response{Hours: domain.EffectiveHours{
			Date:            time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
			DayOfWeek:       4,
			Message:         reason,
			ExceptionReason: &reason,
		}}, nil)

	rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/businesses/biz-1/hours?date=2025-12-25")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-12-25","dayOfWeek":4,"isOpen":false,"slotDuration":0,"bufferTime":0,"message":"Holiday","exceptionReason":"Holiday"}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		ucErr      error
		wantStatus int
	}{
		{name: "missing date", target: "/x", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/x?date=14.01.2025", wantStatus: http.StatusBadRequest},
		{name: "not found", target: "/x?date=2025-01-14", ucErr: getEffectiveHours.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", target: "/x?date=2025-01-14", ucErr: getEffectiveHours.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}

			rec := serve(NewHandler(uc, logger.Nop()), tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertExpectations(t)
		})
	}
}
