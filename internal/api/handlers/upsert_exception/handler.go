package upsert_exception

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers"
	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidException   = "некорректное исключение расписания"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "только владелец может изменять расписание"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID := vars["businessId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := scheduling.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req UpsertExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertException(r.Context(), req.ToServiceRequest(businessID, userID, date))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Invalid exception: business_id=%s, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidException)

		case errors.Is(err, availability.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/exceptions/{date} - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/exceptions/{date} - Failed to upsert exception: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/exceptions/{date} - Exception saved: business_id=%s, date=%s, available=%t",
		businessID, result.Date, result.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}
