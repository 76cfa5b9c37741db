package list_exceptions

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kameqazi1/Manaakhah-sub002/internal/api/handlers"
	"github.com/kameqazi1/Manaakhah-sub002/internal/scheduling"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability"
)

const (
	msgInvalidFrom      = "некорректный параметр from, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/businesses/{businessId}/exceptions
// Query params: from (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := mux.Vars(r)["businessId"]

	var from *time.Time
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := scheduling.ParseDate(fromStr)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/exceptions - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = &parsed
	}

	result, err := h.service.ListExceptions(r.Context(), businessID, from)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/exceptions - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/exceptions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBusiness)

		default:
			h.logger.Error("GET /businesses/{id}/exceptions - Failed to list exceptions: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/exceptions - Exceptions retrieved: business_id=%s, count=%d",
		businessID, len(result.Exceptions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
