package update_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateWeeklySchedule(ctx context.Context, req *models.UpdateWeeklyScheduleRequest) (*models.WeeklyScheduleResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklyScheduleResponse), args.Error(1)
}

func serve(h *Handler, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/businesses/biz-1/availability", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"businessId": "biz-1"})
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &mockService{}
	start, end := "09:00", "12:00"
	svc.On("UpdateWeeklySchedule", mock.Anything, &models.UpdateWeeklyScheduleRequest{
		UserID:     "owner-1",
		BusinessID: "biz-1",
		Days:       []models.WeeklyDayInput{{DayOfWeek: 2, StartTime: &start, EndTime: &end, IsAvailable: true}},
	}).Return(&models.WeeklyScheduleResponse{BusinessID: "biz-1", Days: []models.WeeklyDayResponse{}}, nil)

	rec := serve(NewHandler(svc, logger.Nop()), "owner-1",
		`{"days":[{"dayOfWeek":2,"startTime":"09:00","endTime":"12:00","isAvailable":true}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"businessId":"biz-1","days":[]}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		svcErr     error
		wantStatus int
	}{
		{name: "no identity", body: `{"days":[]}`, wantStatus: http.StatusUnauthorized},
		{name: "malformed body", userID: "owner-1", body: `{"days":`, wantStatus: http.StatusBadRequest},
		{name: "invalid schedule", userID: "owner-1", body: `{"days":[]}`, svcErr: availability.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not owner", userID: "stranger", body: `{"days":[]}`, svcErr: availability.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "business not found", userID: "owner-1", body: `{"days":[]}`, svcErr: availability.ErrBusinessNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", userID: "owner-1", body: `{"days":[]}`, svcErr: availability.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.svcErr != nil {
				svc.On("UpdateWeeklySchedule", mock.Anything, mock.Anything).Return(nil, tt.svcErr)
			}

			rec := serve(NewHandler(svc, logger.Nop()), tt.userID, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
