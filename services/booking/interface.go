package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	bookingRepo "experiencehub/database/repository/booking"
	inventoryRepo "experiencehub/database/repository/inventory"
	"experiencehub/models"
)

// ReservationEngine is the only writer of slot counters and the only creator
// of bookings.
type ReservationEngine interface {
	Reserve(ctx context.Context, req models.ReserveRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*CancelResult, error)
	GetAvailability(ctx context.Context, experienceID, date string) (*models.DateAvailability, error)
	GetCalendar(ctx context.Context, experienceID string) ([]models.DateAvailability, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, newestFirst bool) ([]models.Booking, error)
	Reconcile(ctx context.Context, experienceID string) ([]SlotReport, error)
}

// ExperienceCatalog resolves an experience and its current price. It returns
// experienceRepo.ErrExperienceNotFound for unknown ids.
type ExperienceCatalog interface {
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
}

// DriftReporter is told about slots whose counters may no longer match the
// active bookings, typically after a compensation step failed.
type DriftReporter interface {
	ReportDrift(ctx context.Context, experienceID string, reason string) error
}

// DefaultReservationEngine implements ReservationEngine on top of the
// repository interfaces.
type DefaultReservationEngine struct {
	Catalog   ExperienceCatalog
	Inventory inventoryRepo.InventoryRepository
	Bookings  bookingRepo.BookingRepository
	Drift     DriftReporter
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewReservationEngine(
	catalog ExperienceCatalog,
	inventory inventoryRepo.InventoryRepository,
	bookings bookingRepo.BookingRepository,
	drift DriftReporter,
	logger *zap.Logger,
) *DefaultReservationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReservationEngine{
		Catalog:   catalog,
		Inventory: inventory,
		Bookings:  bookings,
		Drift:     drift,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (e *DefaultReservationEngine) reportDrift(ctx context.Context, experienceID, reason string) {
	if e.Drift == nil {
		return
	}
	if err := e.Drift.ReportDrift(ctx, experienceID, reason); err != nil {
		e.Logger.Error("Failed to report inventory drift",
			zap.String("experienceId", experienceID),
			zap.String("reason", reason),
			zap.Error(err))
	}
}
