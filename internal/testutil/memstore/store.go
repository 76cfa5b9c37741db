// Package memstore is an in-memory implementation of the storage repositories
// used by use case, service and handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kameqazi1/Manaakhah-sub002/internal/domain"
	availabilityRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/availability"
	bookingRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/booking"
	businessRepo "github.com/kameqazi1/Manaakhah-sub002/internal/infra/storage/business"
)

// Store holds all tables. Use the *Repo accessors to get repository views.
type Store struct {
	mu sync.Mutex

	businesses map[string]domain.Business
	weekly     map[string]map[int]domain.WeeklyAvailability
	exceptions map[string]map[string]domain.AvailabilityException
	bookings   map[string]*domain.Booking

	outbox []domain.OutboxEvent
	audit  []domain.AuditEntry
	locks  []string
}

func New() *Store {
	return &Store{
		businesses: make(map[string]domain.Business),
		weekly:     make(map[string]map[int]domain.WeeklyAvailability),
		exceptions: make(map[string]map[string]domain.AvailabilityException),
		bookings:   make(map[string]*domain.Booking),
	}
}

// AddBusiness seeds a business record.
func (s *Store) AddBusiness(b domain.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[b.ID] = b
}

// AddWeekly seeds a weekly row.
func (s *Store) AddWeekly(w domain.WeeklyAvailability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putWeekly(w)
}

// AddException seeds an exception.
func (s *Store) AddException(e domain.AvailabilityException) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putException(e)
}

// AddBooking seeds a booking.
func (s *Store) AddBooking(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = copyBooking(b)
}

// Booking returns a copy of a stored booking.
func (s *Store) Booking(id string) (*domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	return copyBooking(b), true
}

// BookingCount returns the number of stored bookings.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// OutboxEvents returns recorded outbox events.
func (s *Store) OutboxEvents() []domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OutboxEvent(nil), s.outbox...)
}

// AuditEntries returns recorded audit entries.
func (s *Store) AuditEntries() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEntry(nil), s.audit...)
}

// Locks returns advisory lock keys taken so far.
func (s *Store) Locks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locks...)
}

func (s *Store) putWeekly(w domain.WeeklyAvailability) {
	days, ok := s.weekly[w.BusinessID]
	if !ok {
		days = make(map[int]domain.WeeklyAvailability)
		s.weekly[w.BusinessID] = days
	}
	days[w.DayOfWeek] = w
}

func (s *Store) putException(e domain.AvailabilityException) {
	dates, ok := s.exceptions[e.BusinessID]
	if !ok {
		dates = make(map[string]domain.AvailabilityException)
		s.exceptions[e.BusinessID] = dates
	}
	dates[e.Date.Format(domain.DateFormat)] = e
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.StatusHistory = append([]domain.StatusHistoryEntry(nil), b.StatusHistory...)
	return &c
}

// BusinessRepo returns the business repository view.
func (s *Store) BusinessRepo() *BusinessRepo { return &BusinessRepo{s: s} }

// AvailabilityRepo returns the availability repository view.
func (s *Store) AvailabilityRepo() *AvailabilityRepo { return &AvailabilityRepo{s: s} }

// BookingRepo returns the booking repository view.
func (s *Store) BookingRepo() *BookingRepo { return &BookingRepo{s: s} }

// OutboxRepo returns the outbox repository view.
func (s *Store) OutboxRepo() *OutboxRepo { return &OutboxRepo{s: s} }

// AuditRepo returns the audit repository view.
func (s *Store) AuditRepo() *AuditRepo { return &AuditRepo{s: s} }

type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*domain.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &b, nil
}

type AvailabilityRepo struct{ s *Store }

func (r *AvailabilityRepo) GetWeekly(_ context.Context, businessID string, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.weekly[businessID][dayOfWeek]
	if !ok {
		return nil, availabilityRepo.ErrWeeklyNotFound
	}
	return &w, nil
}

func (r *AvailabilityRepo) ListWeekly(_ context.Context, businessID string) ([]*domain.WeeklyAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.WeeklyAvailability, 0)
	for day := 0; day < domain.DaysInWeek; day++ {
		if w, ok := r.s.weekly[businessID][day]; ok {
			w := w
			result = append(result, &w)
		}
	}
	return result, nil
}

func (r *AvailabilityRepo) UpsertWeekly(_ context.Context, w *domain.WeeklyAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if existing, ok := r.s.weekly[w.BusinessID][w.DayOfWeek]; ok {
		w.CreatedAt = existing.CreatedAt
	} else {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	r.s.putWeekly(*w)
	return nil
}

func (r *AvailabilityRepo) GetException(_ context.Context, businessID string, date time.Time) (*domain.AvailabilityException, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.exceptions[businessID][date.Format(domain.DateFormat)]
	if !ok {
		return nil, availabilityRepo.ErrExceptionNotFound
	}
	return &e, nil
}

func (r *AvailabilityRepo) ListExceptions(_ context.Context, businessID string, from *time.Time) ([]*domain.AvailabilityException, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.AvailabilityException, 0)
	for _, e := range r.s.exceptions[businessID] {
		if from != nil && e.Date.Format(domain.DateFormat) < from.Format(domain.DateFormat) {
			continue
		}
		e := e
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *AvailabilityRepo) UpsertException(_ context.Context, e *domain.AvailabilityException) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.putException(*e)
	return nil
}

func (r *AvailabilityRepo) DeleteException(_ context.Context, businessID string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := date.Format(domain.DateFormat)
	if _, ok := r.s.exceptions[businessID][key]; !ok {
		return availabilityRepo.ErrExceptionNotFound
	}
	delete(r.s.exceptions[businessID], key)
	return nil
}

type BookingRepo struct{ s *Store }

func (r *BookingRepo) LockBusinessDate(_ context.Context, businessID string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locks = append(r.s.locks, businessID+":"+date.Format(domain.DateFormat))
	return nil
}

func (r *BookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// частичный уникальный индекс активных бронирований
	if b.IsActive() {
		for _, existing := range r.s.bookings {
			if existing.IsActive() &&
				existing.BusinessID == b.BusinessID &&
				existing.AppointmentDate.Format(domain.DateFormat) == b.AppointmentDate.Format(domain.DateFormat) &&
				existing.AppointmentTime == b.AppointmentTime {
				return nil, bookingRepo.ErrSlotTaken
			}
		}
	}
	r.s.bookings[b.ID] = copyBooking(b)
	return b, nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *BookingRepo) GetByCustomerID(_ context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sortBookings(result)
	return result, nil
}

func (r *BookingRepo) GetByBusinessWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Date != nil && b.AppointmentDate.Format(domain.DateFormat) != filter.Date.Format(domain.DateFormat) {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		result = append(result, copyBooking(b))
	}
	sortBookings(result)
	return result, nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	r.s.bookings[b.ID] = copyBooking(b)
	return nil
}

func sortBookings(bookings []*domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		di, dj := bookings[i].AppointmentDate, bookings[j].AppointmentDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return bookings[i].AppointmentTime.IsBefore(bookings[j].AppointmentTime)
	})
}

type OutboxRepo struct{ s *Store }

func (r *OutboxRepo) Add(_ context.Context, e *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, *e)
	return nil
}

// FetchUnpublished mirrors the SQL ordering: fewest attempts first, then insertion order.
func (r *OutboxRepo) FetchUnpublished(_ context.Context, limit int, maxAttempts int) ([]*domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pending := make([]*domain.OutboxEvent, 0, len(r.s.outbox))
	for _, e := range r.s.outbox {
		if e.PublishedAt == nil && e.Attempts < maxAttempts {
			e := e
			pending = append(pending, &e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Attempts < pending[j].Attempts
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *OutboxRepo) MarkPublished(_ context.Context, ids []string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		for i := range r.s.outbox {
			if r.s.outbox[i].ID == id {
				published := at
				r.s.outbox[i].PublishedAt = &published
			}
		}
	}
	return nil
}

func (r *OutboxRepo) MarkFailed(_ context.Context, id string, _ string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			r.s.outbox[i].Attempts++
		}
	}
	return nil
}

type AuditRepo struct{ s *Store }

func (r *AuditRepo) Add(_ context.Context, e *domain.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *e)
	return nil
}

func (r *AuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*domain.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.AuditEntry, 0)
	for _, e := range r.s.audit {
		if e.EntityType == entityType && e.EntityID == entityID {
			e := e
			result = append(result, &e)
		}
	}
	return result, nil
}
