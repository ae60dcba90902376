package memoryRepo

import (
	"context"
	"sync"
	"time"

	bookingRepo "experiencehub/database/repository/booking"
	"experiencehub/models"
)

type activeKey struct {
	slot  models.SlotKey
	email string
}

// BookingStore keeps bookings in memory and indexes the active ones by
// (slot, email) so Put can refuse a second active booking.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	active   map[activeKey]string
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[string]*models.Booking),
		active:   make(map[activeKey]string),
	}
}

func keyOf(b *models.Booking) activeKey {
	return activeKey{slot: b.SlotKey(), email: b.CustomerEmail}
}

func (s *BookingStore) Put(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking.CustomerEmail = models.NormalizeEmail(booking.CustomerEmail)
	booking.Active = booking.Status.IsActive()

	if booking.Active {
		if _, taken := s.active[keyOf(booking)]; taken {
			return bookingRepo.ErrDuplicateActive
		}
	}

	stored := *booking
	s.bookings[booking.ID] = &stored
	if stored.Active {
		s.active[keyOf(&stored)] = stored.ID
	}
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *BookingStore) ListAll(_ context.Context, newestFirst bool) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		result = append(result, *b)
	}
	sortByCreatedAt(result, newestFirst)
	return result, nil
}

func (s *BookingStore) MarkCancelled(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if b.Status == models.BookingCancelled {
		return nil, bookingRepo.ErrAlreadyCancelled
	}

	delete(s.active, keyOf(b))
	b.Status = models.BookingCancelled
	b.Active = false
	b.UpdatedAt = time.Now().UTC()
	out := *b
	return &out, nil
}

func (s *BookingStore) Reactivate(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Status != models.BookingCancelled {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if _, taken := s.active[keyOf(b)]; taken {
		return nil, bookingRepo.ErrDuplicateActive
	}

	b.Status = models.BookingConfirmed
	b.Active = true
	b.UpdatedAt = time.Now().UTC()
	s.active[keyOf(b)] = b.ID
	out := *b
	return &out, nil
}

func (s *BookingStore) FindActive(_ context.Context, key models.SlotKey, email string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.active[activeKey{slot: key, email: models.NormalizeEmail(email)}]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *s.bookings[id]
	return &out, nil
}

func (s *BookingStore) ActiveQuantities(_ context.Context, experienceID string) (map[models.SlotKey]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[models.SlotKey]int)
	for _, b := range s.bookings {
		if b.Active && b.ExperienceID == experienceID {
			totals[b.SlotKey()] += b.Quantity
		}
	}
	return totals, nil
}
