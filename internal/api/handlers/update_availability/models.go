package update_availability

import "github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"

// UpdateAvailabilityRequest HTTP request model
type UpdateAvailabilityRequest struct {
	Days []models.WeeklyDayInput `json:"days"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(businessID, userID string) *models.UpdateWeeklyScheduleRequest {
	return &models.UpdateWeeklyScheduleRequest{
		UserID:     userID,
		BusinessID: businessID,
		Days:       r.Days,
	}
}
