package get_available_slots

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

var tuesday = time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)

type lookupCounter struct {
	open, closed int
}

func (c *lookupCounter) IncSlotLookup(isOpen bool) {
	if isOpen {
		c.open++
		return
	}
	c.closed++
}

func seed() *memstore.Store {
	store := memstore.New()
	store.AddBusiness(domain.Business{ID: "biz-1", OwnerID: "owner-1"})
	store.AddWeekly(domain.WeeklyAvailability{
		BusinessID:          "biz-1",
		DayOfWeek:           int(time.Tuesday),
		StartTime:           "09:00",
		EndTime:             "17:00",
		SlotDurationMinutes: 30,
		BufferMinutes:       15,
		IsAvailable:         true,
	})
	return store
}

func newUseCase(store *memstore.Store, now time.Time) (*UseCase, *lookupCounter) {
	counter := &lookupCounter{}
	uc := NewUseCase(store.BookingRepo(), store.BusinessRepo(), store.AvailabilityRepo(), counter, logger.Nop()).
		WithTimeProvider(&memstore.Clock{T: now})
	return uc, counter
}

func times(slots []domain.Slot, available bool) []types.TimeString {
	result := make([]types.TimeString, 0)
	for _, s := range slots {
		if s.Available == available {
			result = append(result, s.Time)
		}
	}
	return result
}

func TestExecute_BufferBlocksNeighbours(t *testing.T) {
	store := seed()
	store.AddBooking(domain.NewPendingBooking("b-1", "biz-1", "cust-1", "Consultation",
		tuesday, "10:00", 30, nil, tuesday.AddDate(0, 0, -7)))

	uc, counter := newUseCase(store, tuesday.AddDate(0, 0, -1))
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 30})
	require.NoError(t, err)

	require.True(t, resp.IsOpen)
	require.Len(t, resp.Slots, 15)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].Time)
	assert.Equal(t, types.TimeString("16:00"), resp.Slots[14].Time)
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, times(resp.Slots, false))
	for _, s := range resp.Slots {
		if !s.Available {
			assert.Equal(t, domain.SlotReasonBooked, s.Reason)
		}
	}
	assert.Equal(t, 1, counter.open)
}

func TestExecute_CancelledBookingsDoNotBlock(t *testing.T) {
	store := seed()
	cancelled := domain.NewPendingBooking("b-1", "biz-1", "cust-1", "Consultation",
		tuesday, "10:00", 30, nil, tuesday.AddDate(0, 0, -7))
	require.NoError(t, cancelled.Transition(domain.StatusCancelled, tuesday.AddDate(0, 0, -6), nil, nil))
	store.AddBooking(cancelled)

	uc, _ := newUseCase(store, tuesday.AddDate(0, 0, -1))
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 30})
	require.NoError(t, err)

	assert.Empty(t, times(resp.Slots, false))
}

func TestExecute_ClosedDay(t *testing.T) {
	store := seed()
	store.AddException(domain.AvailabilityException{
		BusinessID:  "biz-1",
		Date:        tuesday,
		IsAvailable: false,
		Reason:      ptr.Ptr("Staff training"),
	})

	uc, counter := newUseCase(store, tuesday.AddDate(0, 0, -1))
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 30})
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Equal(t, "Staff training", resp.Message)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, 1, counter.closed)
}

func TestExecute_TodayDropsElapsedSlots(t *testing.T) {
	now := tuesday.Add(13*time.Hour + 10*time.Minute)

	uc, _ := newUseCase(seed(), now)
	resp, err := uc.Execute(context.Background(), &Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 60})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, types.TimeString("13:30"), resp.Slots[0].Time)
	assert.Equal(t, types.TimeString("16:00"), resp.Slots[len(resp.Slots)-1].Time)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "missing business",
			req:     Request{Date: tuesday, ServiceDuration: 30},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration too short",
			req:     Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 4},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duration too long",
			req:     Request{BusinessID: "biz-1", Date: tuesday, ServiceDuration: 481},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "past date",
			req:     Request{BusinessID: "biz-1", Date: tuesday.AddDate(0, 0, -1), ServiceDuration: 30},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "unknown business",
			req:     Request{BusinessID: "biz-404", Date: tuesday, ServiceDuration: 30},
			wantErr: ErrBusinessNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUseCase(seed(), tuesday.Add(8*time.Hour))
			req := tt.req
			_, err := uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
