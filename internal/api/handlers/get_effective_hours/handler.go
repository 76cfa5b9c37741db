package get_effective_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	getEffectiveHours "github.com/kameqazi1/Manaakhah-sub002/internal/usecase/get_effective_hours"
)

const (
	msgMissingDate      = "отсутствует обязательный параметр date"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound = "бизнес не найден"
	msgInvalidParams    = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetEffectiveHoursUseCase
	logger  Logger
}

func NewHandler(useCase GetEffectiveHoursUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/hours?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := mux.Vars(r)["businessId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/hours - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := scheduling.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/hours - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getEffectiveHours.Request{
		BusinessID: businessID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getEffectiveHours.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/hours - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getEffectiveHours.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/hours - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /businesses/{id}/hours - Failed to resolve hours: business_id=%s, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/hours - Hours resolved: business_id=%s, date=%s, open=%t",
		businessID, dateStr, result.Hours.IsOpen)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
