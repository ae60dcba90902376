package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "experiencehub/database/repository/booking"
	memoryRepo "experiencehub/database/repository/memory"
	"experiencehub/models"
)

type storeCatalog struct {
	store *memoryRepo.ExperienceStore
}

func (c storeCatalog) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	return c.store.GetByID(ctx, id)
}

type recordingDrift struct {
	mu      sync.Mutex
	reports []string
}

func (d *recordingDrift) ReportDrift(_ context.Context, experienceID, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, experienceID)
	return nil
}

type fixture struct {
	engine      *DefaultReservationEngine
	experiences *memoryRepo.ExperienceStore
	inventory   *memoryRepo.InventoryStore
	bookings    *memoryRepo.BookingStore
	drift       *recordingDrift
}

const (
	kayakingID = "exp-kayaking"
	slotDate   = "2025-10-22"
	nineAM     = "9:00 AM"
)

var nineAMKey = models.SlotKey{ExperienceID: kayakingID, Date: slotDate, Label: nineAM}

// newFixture seeds the Kayaking experience: one 9:00 AM slot on 2025-10-22
// with the given capacity, priced at 999.
func newFixture(t *testing.T, units int) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		experiences: memoryRepo.NewExperienceStore(),
		inventory:   memoryRepo.NewInventoryStore(),
		bookings:    memoryRepo.NewBookingStore(),
		drift:       &recordingDrift{},
	}
	require.NoError(t, f.experiences.Create(ctx, &models.Experience{
		ID: kayakingID, Title: "Kayaking", Location: "Goa", Price: 999, CreatedAt: time.Now(),
	}))
	require.NoError(t, f.inventory.CreateMany(ctx, []models.SlotInventory{
		{ExperienceID: kayakingID, Date: slotDate, Label: nineAM, Position: 0, TotalUnits: units, AvailableUnits: units},
		{ExperienceID: kayakingID, Date: slotDate, Label: "11:00 AM", Position: 1, TotalUnits: units, AvailableUnits: units},
	}))

	f.engine = NewReservationEngine(storeCatalog{f.experiences}, f.inventory, f.bookings, f.drift, zap.NewNop())
	return f
}

func (f *fixture) available(t *testing.T) int {
	t.Helper()
	slot, err := f.inventory.Get(context.Background(), nineAMKey)
	require.NoError(t, err)
	return slot.AvailableUnits
}

func request(email string, quantity int) models.ReserveRequest {
	return models.ReserveRequest{
		ExperienceID:  kayakingID,
		Date:          slotDate,
		SlotLabel:     nineAM,
		CustomerName:  "Guest",
		CustomerEmail: email,
		CustomerPhone: "9999999999",
		Quantity:      quantity,
	}
}

func TestKayakingScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	first, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, first.Status)
	assert.Equal(t, 1998.0, first.TotalPrice)
	assert.Equal(t, 3, f.available(t))

	_, err = f.engine.Reserve(ctx, request("a@x.com", 1))
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	_, err = f.engine.Reserve(ctx, request("b@x.com", 4))
	require.ErrorIs(t, err, ErrInsufficientAvailability)
	be, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 3, be.Available)
	assert.Equal(t, 4, be.Requested)
	assert.False(t, be.SoldOut())

	result, err := f.engine.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestored, result.Outcome)
	assert.Equal(t, models.BookingCancelled, result.Booking.Status)
	assert.Equal(t, 5, f.available(t))
}

func TestReserve_ValidationOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.ReserveRequest)
		want   error
	}{
		{"unknown experience wins over everything", func(r *models.ReserveRequest) {
			r.ExperienceID = "missing"
			r.Date = "2031-01-01"
			r.Quantity = 0
		}, ErrExperienceNotFound},
		{"unknown date", func(r *models.ReserveRequest) {
			r.Date = "2025-10-23"
			r.SlotLabel = "nope"
		}, ErrDateUnavailable},
		{"unparseable date", func(r *models.ReserveRequest) { r.Date = "next tuesday" }, ErrDateUnavailable},
		{"unknown slot before quantity", func(r *models.ReserveRequest) {
			r.SlotLabel = "3:00 PM"
			r.Quantity = 0
		}, ErrSlotNotFound},
		{"zero quantity", func(r *models.ReserveRequest) { r.Quantity = 0 }, ErrInvalidQuantity},
		{"negative quantity", func(r *models.ReserveRequest) { r.Quantity = -2 }, ErrInvalidQuantity},
		{"too many units", func(r *models.ReserveRequest) { r.Quantity = 6 }, ErrInsufficientAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5)
			req := request("a@x.com", 1)
			tt.mutate(&req)

			_, err := f.engine.Reserve(ctx, req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 5, f.available(t))
		})
	}
}

func TestReserve_AcceptsTimestampDates(t *testing.T) {
	f := newFixture(t, 5)
	req := request("a@x.com", 1)
	req.Date = "2025-10-22T00:00:00.000Z"

	booking, err := f.engine.Reserve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, slotDate, booking.Date)
}

func TestReserve_DuplicateCheckedBeforeAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)

	_, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)

	// Slot is now sold out, but the same customer is told about the duplicate.
	_, err = f.engine.Reserve(ctx, request("A@X.com", 1))
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestReserve_NoOversellingUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reserved int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			qty := i%3 + 1
			req := request("guest"+string(rune('a'+i%26))+string(rune('a'+i/26))+"@x.com", qty)
			if _, err := f.engine.Reserve(ctx, req); err == nil {
				mu.Lock()
				reserved += qty
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInsufficientAvailability)
			}
		}(i)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, f.available(t), 0)
	assert.Equal(t, 10-reserved, f.available(t))

	reports, err := f.engine.Reconcile(ctx, kayakingID)
	require.NoError(t, err)
	for _, r := range reports {
		assert.True(t, r.Consistent(), "slot %s drifted by %d", r.Slot.Label, r.Drift)
	}
}

func TestReserve_RebookAfterCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	first, err := f.engine.Reserve(ctx, request("a@x.com", 1))
	require.NoError(t, err)

	_, err = f.engine.Reserve(ctx, request("a@x.com", 3))
	require.ErrorIs(t, err, ErrDuplicateBooking)

	_, err = f.engine.Cancel(ctx, first.ID)
	require.NoError(t, err)

	second, err := f.engine.Reserve(ctx, request("a@x.com", 3))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, f.available(t))
}

func TestCancel_RestoresExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	b, err := f.engine.Reserve(ctx, request("a@x.com", 3))
	require.NoError(t, err)
	assert.Equal(t, 2, f.available(t))

	_, err = f.engine.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.available(t))

	_, err = f.engine.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 5, f.available(t))

	_, err = f.engine.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ConcurrentCallsRestoreOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	b, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.engine.Cancel(ctx, b.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 5, f.available(t))
}

func TestReserve_SoldOutBoundary(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.engine.Reserve(context.Background(), request("a@x.com", 1))
	require.ErrorIs(t, err, ErrInsufficientAvailability)

	be, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 0, be.Available)
	assert.Equal(t, 1, be.Requested)
	assert.True(t, be.SoldOut())
	assert.Equal(t, "This time slot is sold out", be.Message)
}

type failingPut struct {
	bookingRepo.BookingRepository
	err error
}

func (f failingPut) Put(context.Context, *models.Booking) error {
	return f.err
}

func TestReserve_CompensatesWhenBookingWriteFails(t *testing.T) {
	ctx := context.Background()

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t, 5)
		f.engine.Bookings = failingPut{BookingRepository: f.bookings, err: errors.New("write concern timeout")}

		_, err := f.engine.Reserve(ctx, request("a@x.com", 3))
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Equal(t, 5, f.available(t))
		assert.Empty(t, f.drift.reports)
	})

	t.Run("unique index race", func(t *testing.T) {
		f := newFixture(t, 5)
		f.engine.Bookings = failingPut{BookingRepository: f.bookings, err: bookingRepo.ErrDuplicateActive}

		_, err := f.engine.Reserve(ctx, request("a@x.com", 3))
		assert.ErrorIs(t, err, ErrDuplicateBooking)
		assert.Equal(t, 5, f.available(t))
	})

	t.Run("cancelled request context", func(t *testing.T) {
		f := newFixture(t, 5)
		cancelled, cancel := context.WithCancel(ctx)
		f.engine.Bookings = cancelOnPut{BookingRepository: f.bookings, cancel: cancel}

		_, err := f.engine.Reserve(cancelled, request("a@x.com", 2))
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Equal(t, 5, f.available(t))
	})
}

// cancelOnPut simulates the client going away between the decrement and the write.
type cancelOnPut struct {
	bookingRepo.BookingRepository
	cancel context.CancelFunc
}

func (c cancelOnPut) Put(ctx context.Context, _ *models.Booking) error {
	c.cancel()
	return ctx.Err()
}

func TestCancel_SkipsRestoreWhenSlotIsGone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	b, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)

	_, err = f.inventory.DeleteByExperience(ctx, kayakingID)
	require.NoError(t, err)
	require.NoError(t, f.experiences.Delete(ctx, kayakingID))

	result, err := f.engine.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestoreSkippedMissing, result.Outcome)

	stored, err := f.engine.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
}

func TestCancel_SkipsRestoreOnDrift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	b, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)

	// Someone put the units back out of band.
	_, err = f.inventory.Increment(ctx, nineAMKey, 2)
	require.NoError(t, err)

	result, err := f.engine.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestoreSkippedDrift, result.Outcome)
	assert.Equal(t, 5, f.available(t))
	assert.Equal(t, []string{kayakingID}, f.drift.reports)
}

type failingIncrement struct {
	*memoryRepo.InventoryStore
}

func (failingIncrement) Increment(context.Context, models.SlotKey, int) (*models.SlotInventory, error) {
	return nil, errors.New("connection reset")
}

func TestCancel_ReactivatesWhenRestoreFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	b, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)

	f.engine.Inventory = failingIncrement{f.inventory}
	_, err = f.engine.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	stored, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
	assert.True(t, stored.Active)
	assert.Equal(t, 3, f.available(t))
}

func TestCancel_PendingHasNoTransition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	pending := models.NewConfirmedBooking("b-pending", nineAMKey, models.CustomerDetails{Email: "p@x.com"}, 1, 999, time.Now())
	pending.Status = models.BookingPending
	require.NoError(t, f.bookings.Put(ctx, pending))

	_, err := f.engine.Cancel(ctx, "b-pending")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	day, err := f.engine.GetAvailability(ctx, kayakingID, slotDate)
	require.NoError(t, err)
	require.Len(t, day.TimeSlots, 2)
	assert.Equal(t, nineAM, day.TimeSlots[0].Label)
	assert.Equal(t, 5, day.TimeSlots[0].AvailableUnits)

	_, err = f.engine.GetAvailability(ctx, kayakingID, "2025-12-25")
	assert.ErrorIs(t, err, ErrDateUnavailable)
	assert.True(t, IsNotFound(err))

	_, err = f.engine.GetAvailability(ctx, "missing", slotDate)
	assert.ErrorIs(t, err, ErrExperienceNotFound)

	calendar, err := f.engine.GetCalendar(ctx, kayakingID)
	require.NoError(t, err)
	require.Len(t, calendar, 1)
	assert.Equal(t, slotDate, calendar[0].Date)
}

func TestReconcile_ReportsDrift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	_, err := f.engine.Reserve(ctx, request("a@x.com", 2))
	require.NoError(t, err)
	_, err = f.inventory.DecrementIfAvailable(ctx, nineAMKey, 1)
	require.NoError(t, err)

	reports, err := f.engine.Reconcile(ctx, kayakingID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 2, reports[0].Booked)
	assert.Equal(t, 3, reports[0].Consumed)
	assert.Equal(t, 1, reports[0].Drift)
	assert.True(t, reports[1].Consistent())

	_, err = f.engine.Reconcile(ctx, "missing")
	assert.ErrorIs(t, err, ErrExperienceNotFound)
}

func TestListBookings_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	clock := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	f.engine.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := f.engine.Reserve(ctx, request("a@x.com", 1))
	require.NoError(t, err)
	second, err := f.engine.Reserve(ctx, request("b@x.com", 1))
	require.NoError(t, err)

	list, err := f.engine.ListBookings(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
