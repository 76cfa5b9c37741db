package get_effective_hours

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/internal/testutil/memstore"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/ptr"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/types"
)

var christmas = time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC) // Thursday

func newUseCase(store *memstore.Store) *UseCase {
	return NewUseCase(store.BusinessRepo(), store.AvailabilityRepo(), logger.Nop())
}

func seed() *memstore.Store {
	store := memstore.New()
	store.AddBusiness(domain.Business{ID: "biz-1", OwnerID: "owner-1"})
	store.AddWeekly(domain.WeeklyAvailability{
		BusinessID:          "biz-1",
		DayOfWeek:           int(time.Thursday),
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		BufferMinutes:       5,
		IsAvailable:         true,
	})
	return store
}

func TestExecute_WeeklyHours(t *testing.T) {
	resp, err := newUseCase(seed()).Execute(context.Background(), &Request{BusinessID: "biz-1", Date: christmas})
	require.NoError(t, err)

	assert.True(t, resp.Hours.IsOpen)
	assert.Equal(t, 4, resp.Hours.DayOfWeek)
	assert.Equal(t, types.TimeString("09:00"), resp.Hours.StartTime)
}

func TestExecute_ExceptionTakesPrecedence(t *testing.T) {
	store := seed()
	store.AddException(domain.AvailabilityException{
		BusinessID:  "biz-1",
		Date:        christmas,
		IsAvailable: false,
		Reason:      ptr.Ptr("Christmas"),
	})

	resp, err := newUseCase(store).Execute(context.Background(), &Request{BusinessID: "biz-1", Date: christmas})
	require.NoError(t, err)

	assert.False(t, resp.Hours.IsOpen)
	assert.Equal(t, "Christmas", resp.Hours.Message)
}

func TestExecute_ClosedWeekday(t *testing.T) {
	friday := christmas.AddDate(0, 0, 1)

	resp, err := newUseCase(seed()).Execute(context.Background(), &Request{BusinessID: "biz-1", Date: friday})
	require.NoError(t, err)

	assert.False(t, resp.Hours.IsOpen)
	assert.Equal(t, domain.MessageClosedDay, resp.Hours.Message)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	_, err := newUseCase(seed()).Execute(context.Background(), &Request{BusinessID: "missing", Date: christmas})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	_, err := newUseCase(seed()).Execute(context.Background(), &Request{Date: christmas})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = newUseCase(seed()).Execute(context.Background(), &Request{BusinessID: "biz-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
