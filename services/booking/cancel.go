package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	bookingRepo "experiencehub/database/repository/booking"
	inventoryRepo "experiencehub/database/repository/inventory"
	"experiencehub/models"
)

// CancelOutcome tells the caller whether the booking's units went back to the slot.
type CancelOutcome string

const (
	OutcomeRestored CancelOutcome = "restored"
	// The experience or slot was deleted; nothing to restore.
	OutcomeRestoreSkippedMissing CancelOutcome = "restore_skipped_inventory_missing"
	// The slot is already at capacity, so the counter had drifted before this
	// cancel. A reconcile task is queued.
	OutcomeRestoreSkippedDrift CancelOutcome = "restore_skipped_inventory_drift"
)

type CancelResult struct {
	Booking *models.Booking `json:"booking"`
	Outcome CancelOutcome   `json:"outcome"`
}

// Cancel flips a confirmed booking to cancelled and gives its units back.
// Only the caller whose status flip succeeds restores units.
func (e *DefaultReservationEngine) Cancel(ctx context.Context, bookingID string) (*CancelResult, error) {
	existing, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storageError("load booking", err)
	}
	if existing.Status == models.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !existing.Status.CanTransitionTo(models.BookingCancelled) {
		return nil, ErrInvalidTransition
	}

	cancelled, err := e.Bookings.MarkCancelled(ctx, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrAlreadyCancelled):
			return nil, ErrAlreadyCancelled
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			return nil, storageError("cancel booking", err)
		}
	}

	// The status flip is done; finish the restore even if the caller goes away.
	restoreCtx := context.WithoutCancel(ctx)
	key := cancelled.SlotKey()
	log := e.Logger.With(
		zap.String("bookingId", bookingID),
		zap.String("experienceId", key.ExperienceID),
		zap.String("date", key.Date),
		zap.String("slot", key.Label),
		zap.Int("quantity", cancelled.Quantity))

	_, err = e.Inventory.Increment(restoreCtx, key, cancelled.Quantity)
	switch {
	case err == nil:
		log.Info("Booking cancelled, units restored")
		return &CancelResult{Booking: cancelled, Outcome: OutcomeRestored}, nil

	case errors.Is(err, inventoryRepo.ErrSlotNotFound):
		log.Warn("Booking cancelled but its slot no longer exists; restore skipped")
		return &CancelResult{Booking: cancelled, Outcome: OutcomeRestoreSkippedMissing}, nil

	case errors.Is(err, inventoryRepo.ErrCapacityExceeded):
		log.Error("Booking cancelled but slot is already at capacity; restore skipped")
		e.reportDrift(restoreCtx, key.ExperienceID, "restore would exceed slot capacity")
		return &CancelResult{Booking: cancelled, Outcome: OutcomeRestoreSkippedDrift}, nil
	}

	// Storage failure: undo the status flip so the booking keeps holding its units.
	log.Error("Failed to restore units; reactivating booking", zap.Error(err))
	if _, reErr := e.Bookings.Reactivate(restoreCtx, bookingID); reErr != nil {
		log.Error("Failed to reactivate booking after restore failure", zap.Error(reErr))
		e.reportDrift(restoreCtx, key.ExperienceID, "cancel compensation failed")
	}
	return nil, storageError("restore slot units", err)
}
