package get_open_weekdays

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
)

const (
	msgBusinessNotFound = "бизнес не найден"
	msgInvalidBusiness  = "некорректный ID бизнеса"
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

// Handle GET /api/v1/businesses/{businessId}/open-weekdays
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := mux.Vars(r)["businessId"]

	result, err := h.service.GetOpenWeekdays(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/open-weekdays - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/open-weekdays - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBusiness)

		default:
			h.logger.Error("GET /businesses/{id}/open-weekdays - Failed to get weekdays: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/open-weekdays - Weekdays retrieved: business_id=%s, count=%d",
		businessID, len(result.Weekdays))
	handlers.RespondJSON(w, http.StatusOK, result)
}
