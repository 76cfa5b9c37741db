package get_availability

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

// Handle GET /api/v1/businesses/{businessId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := mux.Vars(r)["businessId"]

	result, err := h.service.GetWeeklySchedule(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBusiness)

		default:
			h.logger.Error("GET /businesses/{id}/availability - Failed to get schedule: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability - Schedule retrieved: business_id=%s", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
