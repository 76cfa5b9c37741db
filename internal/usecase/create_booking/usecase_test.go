package create_booking

import (
	"context"
	"sync"
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

var (
	tuesday = time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	monday  = tuesday.Add(-24*time.Hour + 12*time.Hour) // понедельник, 12:00
)

type bookingCounter struct {
	mu                 sync.Mutex
	created, conflicts int
}

func (c *bookingCounter) IncBookingCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created++
}

func (c *bookingCounter) IncBookingConflict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conflicts++
}

type fixture struct {
	store   *memstore.Store
	tx      *memstore.TxManager
	metrics *bookingCounter
	uc      *UseCase
}

func newFixture(now time.Time) *fixture {
	store := memstore.New()
	store.AddBusiness(domain.Business{ID: "biz-1", OwnerID: "owner-1", Name: "Salon"})
	store.AddWeekly(domain.WeeklyAvailability{
		BusinessID:          "biz-1",
		DayOfWeek:           int(time.Tuesday),
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		BufferMinutes:       0,
		IsAvailable:         true,
	})

	f := &fixture{store: store, tx: &memstore.TxManager{}, metrics: &bookingCounter{}}
	f.uc = NewUseCase(
		store.BookingRepo(),
		store.BusinessRepo(),
		store.AvailabilityRepo(),
		store.OutboxRepo(),
		store.AuditRepo(),
		f.tx,
		f.metrics,
		logger.Nop(),
	).
		WithTimeProvider(&memstore.Clock{T: now}).
		WithIDGenerator(memstore.Sequence("id"))
	return f
}

func validRequest() *Request {
	return &Request{
		CustomerID:      "cust-1",
		BusinessID:      "biz-1",
		ServiceType:     "Haircut",
		Date:            tuesday,
		Time:            "10:00",
		DurationMinutes: 60,
		Notes:           ptr.Ptr("first visit"),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(monday)

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	b := resp.Booking
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, "cust-1", b.CustomerID)
	assert.Equal(t, types.TimeString("10:00"), b.AppointmentTime)
	assert.Equal(t, 60, b.DurationMinutes)
	require.Len(t, b.StatusHistory, 1)
	assert.Equal(t, domain.StatusPending, b.StatusHistory[0].Status)
	assert.Equal(t, monday, b.StatusHistory[0].Timestamp)

	stored, ok := f.store.Booking(b.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, stored.ID)

	events := f.store.OutboxEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventBookingCreated, events[0].EventType)
	assert.Equal(t, b.ID, events[0].AggregateID)

	audit := f.store.AuditEntries()
	require.Len(t, audit, 1)
	assert.Equal(t, domain.AuditBookingCreated, audit[0].Action)
	assert.Equal(t, "cust-1", audit[0].ActorID)

	assert.Equal(t, []string{"biz-1:2025-01-14"}, f.store.Locks())
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_PreconditionOrder(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		mutate  func(r *Request)
		wantErr error
	}{
		{
			name:    "missing service type",
			now:     monday,
			mutate:  func(r *Request) { r.ServiceType = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero duration",
			now:     monday,
			mutate:  func(r *Request) { r.DurationMinutes = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration over eight hours",
			now:     monday,
			mutate:  func(r *Request) { r.DurationMinutes = 481 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed time",
			now:     monday,
			mutate:  func(r *Request) { r.Time = "25:99" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "validation wins over unknown business",
			now:  monday,
			mutate: func(r *Request) {
				r.BusinessID = "biz-404"
				r.DurationMinutes = 0
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "start equals now",
			now:     tuesday.Add(10 * time.Hour),
			mutate:  func(r *Request) {},
			wantErr: ErrAppointmentInPast,
		},
		{
			name: "past date checked before business",
			now:  monday,
			mutate: func(r *Request) {
				r.BusinessID = "biz-404"
				r.Date = monday.AddDate(0, 0, -7)
			},
			wantErr: ErrAppointmentInPast,
		},
		{
			name:    "unknown business",
			now:     monday,
			mutate:  func(r *Request) { r.BusinessID = "biz-404" },
			wantErr: ErrBusinessNotFound,
		},
		{
			name:    "owner books own business",
			now:     monday,
			mutate:  func(r *Request) { r.CustomerID = "owner-1" },
			wantErr: ErrSelfBooking,
		},
		{
			name:    "closed day",
			now:     monday,
			mutate:  func(r *Request) { r.Date = tuesday.AddDate(0, 0, 1) },
			wantErr: ErrBusinessClosed,
		},
		{
			name:    "time off the grid",
			now:     monday,
			mutate:  func(r *Request) { r.Time = "10:15" },
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "ends after closing",
			now:     monday,
			mutate:  func(r *Request) { r.Time = "11:30" },
			wantErr: ErrInvalidTimeSlot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.now)
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.store.BookingCount())
			assert.Empty(t, f.store.OutboxEvents())
		})
	}
}

func TestExecute_ClosedByException(t *testing.T) {
	f := newFixture(monday)
	f.store.AddException(domain.AvailabilityException{
		BusinessID:  "biz-1",
		Date:        tuesday,
		IsAvailable: false,
		Reason:      ptr.Ptr("Holiday"),
	})

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_OverlapIsConflict(t *testing.T) {
	f := newFixture(monday)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	overlapping := validRequest()
	overlapping.CustomerID = "cust-2"
	overlapping.Time = "10:30"
	overlapping.DurationMinutes = 30

	_, err = f.uc.Execute(context.Background(), overlapping)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.store.BookingCount())
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture(monday)
	cancelled := domain.NewPendingBooking("old", "biz-1", "cust-9", "Haircut", tuesday, "10:00", 60, nil, monday)
	require.NoError(t, cancelled.Transition(domain.StatusCancelled, monday, nil, nil))
	f.store.AddBooking(cancelled)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_NoDoubleBooking(t *testing.T) {
	f := newFixture(monday)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.CustomerID = "cust-" + string(rune('a'+i))

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrSlotNotAvailable):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, f.store.BookingCount())
	assert.Equal(t, workers, f.tx.Calls())
}

// Сценарий: вторник 09:00-12:00, шаг 30, без буфера, запись 10:00 на 60 минут.
func TestExecute_TuesdayScenario(t *testing.T) {
	f := newFixture(monday)

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	for _, at := range []types.TimeString{"09:30", "10:00", "10:30"} {
		req := validRequest()
		req.CustomerID = "cust-2"
		req.Time = at
		req.DurationMinutes = 30
		if at == "09:30" {
			req.DurationMinutes = 60
		}
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotNotAvailable, "time %s", at)
	}

	for _, at := range []types.TimeString{"09:00", "11:00"} {
		req := validRequest()
		req.CustomerID = "cust-3"
		req.Time = at
		req.DurationMinutes = 60
		_, err := f.uc.Execute(context.Background(), req)
		assert.NoError(t, err, "time %s", at)
	}

	assert.Equal(t, 3, f.store.BookingCount())
}
