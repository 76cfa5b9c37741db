package delete_exception

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers"
	"github.com/kameqazi1/Manaakhah-sub002/internal/api/middleware"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
	msgExceptionNotFound = "исключение на эту дату не найдено"
	msgForbidden         = "только владелец может изменять расписание"
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

// Handle DELETE /api/v1/businesses/{businessId}/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID := vars["businessId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := scheduling.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	err = h.service.DeleteException(r.Context(), &models.DeleteExceptionRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, availability.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, availability.ErrExceptionNotFound):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Exception not found: business_id=%s, date=%s",
				businessID, vars["date"])
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/exceptions/{date} - Access denied: business_id=%s, user_id=%s", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/exceptions/{date} - Failed to delete exception: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/exceptions/{date} - Exception deleted: business_id=%s, date=%s",
		businessID, vars["date"])
	w.WriteHeader(http.StatusNoContent)
}
