package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	"github.com/kameqazi1/Manaakhah-sub002/internal/service/availability/models"
	"github.com/kameqazi1/Manaakhah-sub002/internal/testutil/memstore"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/logger"
	"github.com/kameqazi1/Manaakhah-sub002/pkg/ptr"
)

var christmas = time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

func newService(store *memstore.Store) *Service {
	return NewService(
		store.BusinessRepo(),
		store.AvailabilityRepo(),
		store.AuditRepo(),
		&memstore.TxManager{},
		logger.Nop(),
	).WithTimeProvider(&memstore.Clock{T: christmas.AddDate(0, 0, -30)})
}

func seed() *memstore.Store {
	store := memstore.New()
	store.AddBusiness(domain.Business{ID: "biz-1", OwnerID: "owner-1"})
	return store
}

func TestGetWeeklySchedule_FillsMissingDays(t *testing.T) {
	store := seed()
	store.AddWeekly(domain.WeeklyAvailability{
		BusinessID:          "biz-1",
		DayOfWeek:           2,
		StartTime:           "08:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 15,
		IsAvailable:         true,
	})

	resp, err := newService(store).GetWeeklySchedule(context.Background(), "biz-1")
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	for day, d := range resp.Days {
		assert.Equal(t, day, d.DayOfWeek)
		if day == 2 {
			assert.True(t, d.Persisted)
			assert.True(t, d.IsAvailable)
			assert.Equal(t, "08:00", d.StartTime)
			continue
		}
		assert.False(t, d.Persisted)
		assert.False(t, d.IsAvailable)
		assert.Equal(t, "09:00", d.StartTime)
		assert.Equal(t, "17:00", d.EndTime)
		assert.Equal(t, 30, d.SlotDuration)
		assert.Zero(t, d.BufferTime)
	}
}

func TestGetWeeklySchedule_UnknownBusiness(t *testing.T) {
	_, err := newService(seed()).GetWeeklySchedule(context.Background(), "biz-404")
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdateWeeklySchedule(t *testing.T) {
	store := seed()
	svc := newService(store)

	resp, err := svc.UpdateWeeklySchedule(context.Background(), &models.UpdateWeeklyScheduleRequest{
		UserID:     "owner-1",
		BusinessID: "biz-1",
		Days: []models.WeeklyDayInput{
			{DayOfWeek: 1, StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("18:00"), BufferTime: ptr.Ptr(10), IsAvailable: true},
			{DayOfWeek: 3, SlotDuration: ptr.Ptr(0), IsAvailable: true},
			{DayOfWeek: 0, IsAvailable: false},
		},
	})
	require.NoError(t, err)

	monday := resp.Days[1]
	assert.True(t, monday.Persisted)
	assert.Equal(t, "10:00", monday.StartTime)
	assert.Equal(t, 30, monday.SlotDuration)
	assert.Equal(t, 10, monday.BufferTime)

	wednesday := resp.Days[3]
	assert.Equal(t, "09:00", wednesday.StartTime)
	assert.Zero(t, wednesday.SlotDuration)

	assert.True(t, resp.Days[0].Persisted)
	assert.False(t, resp.Days[0].IsAvailable)

	audit := store.AuditEntries()
	require.Len(t, audit, 1)
	assert.Equal(t, domain.AuditWeeklyUpdated, audit[0].Action)

	weekdays, err := svc.GetOpenWeekdays(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, weekdays.Weekdays)
}

func TestUpdateWeeklySchedule_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		days    []models.WeeklyDayInput
		wantErr error
	}{
		{
			name:    "not owner",
			userID:  "cust-1",
			days:    []models.WeeklyDayInput{{DayOfWeek: 1, IsAvailable: true}},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "empty",
			userID:  "owner-1",
			wantErr: ErrInvalidInput,
		},
		{
			name:    "start after end",
			userID:  "owner-1",
			days:    []models.WeeklyDayInput{{DayOfWeek: 1, StartTime: ptr.Ptr("18:00"), EndTime: ptr.Ptr("09:00"), IsAvailable: true}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "day out of range",
			userID:  "owner-1",
			days:    []models.WeeklyDayInput{{DayOfWeek: 7, IsAvailable: true}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "slot too short",
			userID:  "owner-1",
			days:    []models.WeeklyDayInput{{DayOfWeek: 1, SlotDuration: ptr.Ptr(3), IsAvailable: true}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "buffer too long",
			userID:  "owner-1",
			days:    []models.WeeklyDayInput{{DayOfWeek: 1, BufferTime: ptr.Ptr(241), IsAvailable: true}},
			wantErr: ErrInvalidInput,
		},
		{
			name:   "duplicate day",
			userID: "owner-1",
			days: []models.WeeklyDayInput{
				{DayOfWeek: 1, IsAvailable: true},
				{DayOfWeek: 1, IsAvailable: false},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seed()
			_, err := newService(store).UpdateWeeklySchedule(context.Background(), &models.UpdateWeeklyScheduleRequest{
				UserID:     tt.userID,
				BusinessID: "biz-1",
				Days:       tt.days,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.AuditEntries())
		})
	}
}

func TestExceptions_Lifecycle(t *testing.T) {
	store := seed()
	svc := newService(store)
	ctx := context.Background()

	created, err := svc.UpsertException(ctx, &models.UpsertExceptionRequest{
		UserID:      "owner-1",
		BusinessID:  "biz-1",
		Date:        christmas,
		IsAvailable: false,
		Reason:      ptr.Ptr(" Christmas "),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-25", created.Date)
	assert.Equal(t, "Christmas", *created.Reason)

	_, err = svc.UpsertException(ctx, &models.UpsertExceptionRequest{
		UserID:      "owner-1",
		BusinessID:  "biz-1",
		Date:        christmas.AddDate(0, 0, 6),
		IsAvailable: true,
		StartTime:   ptr.Ptr("10:00"),
		EndTime:     ptr.Ptr("14:00"),
	})
	require.NoError(t, err)

	list, err := svc.ListExceptions(ctx, "biz-1", nil)
	require.NoError(t, err)
	require.Len(t, list.Exceptions, 2)
	assert.Equal(t, "2025-12-25", list.Exceptions[0].Date)
	assert.Equal(t, "10:00", *list.Exceptions[1].StartTime)

	from := christmas.AddDate(0, 0, 1)
	later, err := svc.ListExceptions(ctx, "biz-1", &from)
	require.NoError(t, err)
	assert.Len(t, later.Exceptions, 1)

	require.NoError(t, svc.DeleteException(ctx, &models.DeleteExceptionRequest{
		UserID: "owner-1", BusinessID: "biz-1", Date: christmas,
	}))
	err = svc.DeleteException(ctx, &models.DeleteExceptionRequest{
		UserID: "owner-1", BusinessID: "biz-1", Date: christmas,
	})
	assert.ErrorIs(t, err, ErrExceptionNotFound)

	assert.Len(t, store.AuditEntries(), 3)
}

func TestUpsertException_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		req     models.UpsertExceptionRequest
		wantErr error
	}{
		{
			name:    "not owner",
			req:     models.UpsertExceptionRequest{UserID: "cust-1", IsAvailable: false},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "only start time",
			req:     models.UpsertExceptionRequest{UserID: "owner-1", IsAvailable: true, StartTime: ptr.Ptr("10:00")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "inverted hours",
			req: models.UpsertExceptionRequest{
				UserID: "owner-1", IsAvailable: true, StartTime: ptr.Ptr("14:00"), EndTime: ptr.Ptr("10:00"),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "closed with hours",
			req: models.UpsertExceptionRequest{
				UserID: "owner-1", IsAvailable: false, StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("14:00"),
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.BusinessID = "biz-1"
			req.Date = christmas
			_, err := newService(seed()).UpsertException(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetOpenWeekdays_Empty(t *testing.T) {
	resp, err := newService(seed()).GetOpenWeekdays(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.NotNil(t, resp.Weekdays)
	assert.Empty(t, resp.Weekdays)
}
