package upsert_exception

import (
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
)

// UpsertExceptionRequest HTTP request model. Дата берется из пути
type UpsertExceptionRequest struct {
	IsAvailable bool    `json:"isAvailable"`
	StartTime   *string `json:"startTime,omitempty"` // "10:00", только вместе с endTime
	EndTime     *string `json:"endTime,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertExceptionRequest) ToServiceRequest(businessID, userID string, date time.Time) *models.UpsertExceptionRequest {
	return &models.UpsertExceptionRequest{
		UserID:      userID,
		BusinessID:  businessID,
		Date:        date,
		IsAvailable: r.IsAvailable,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Reason:      r.Reason,
	}
}
