package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "experiencehub/database/repository/booking"
	experienceRepo "experiencehub/database/repository/experience"
	inventoryRepo "experiencehub/database/repository/inventory"
	"experiencehub/models"
	"experiencehub/utils"
)

// Reserve validates the request against live inventory, takes the units with a
// conditional decrement and persists a confirmed booking. If the booking write
// fails the decrement is undone before the error is returned.
func (e *DefaultReservationEngine) Reserve(ctx context.Context, req models.ReserveRequest) (*models.Booking, error) {
	// Step 1: Experience
	experience, err := e.lookupExperience(ctx, req.ExperienceID)
	if err != nil {
		return nil, err
	}

	// Step 2: Date
	date, err := utils.NormalizeDate(req.Date)
	if err != nil {
		return nil, ErrDateUnavailable
	}
	slots, err := e.Inventory.ListByExperienceAndDate(ctx, experience.ID, date)
	if err != nil {
		return nil, storageError("load slots", err)
	}
	if len(slots) == 0 {
		return nil, ErrDateUnavailable
	}

	// Step 3: Slot
	slot, ok := findSlot(slots, req.SlotLabel)
	if !ok {
		return nil, ErrSlotNotFound
	}

	// Step 4: Quantity
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	// Step 5: One active booking per customer and slot
	key := slot.Key()
	if _, err := e.Bookings.FindActive(ctx, key, req.CustomerEmail); err == nil {
		return nil, ErrDuplicateBooking
	} else if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, storageError("check existing bookings", err)
	}

	// Step 6: Availability
	if slot.AvailableUnits < req.Quantity {
		return nil, newInsufficient(slot.AvailableUnits, req.Quantity)
	}

	// Step 7: Take the units. Another request may have won the race since the read.
	if _, err := e.Inventory.DecrementIfAvailable(ctx, key, req.Quantity); err != nil {
		return nil, e.decrementFailure(ctx, key, req.Quantity, err)
	}

	// Step 8: Persist, compensating on failure
	booking := models.NewConfirmedBooking(uuid.New().String(), key, req.Customer(), req.Quantity, experience.Price, e.Now())
	if err := e.Bookings.Put(ctx, booking); err != nil {
		e.compensateDecrement(context.WithoutCancel(ctx), key, req.Quantity)
		if errors.Is(err, bookingRepo.ErrDuplicateActive) {
			return nil, ErrDuplicateBooking
		}
		return nil, storageError("persist booking", err)
	}

	e.Logger.Info("Booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("experienceId", key.ExperienceID),
		zap.String("date", key.Date),
		zap.String("slot", key.Label),
		zap.Int("quantity", booking.Quantity),
		zap.Float64("totalPrice", booking.TotalPrice))

	return booking, nil
}

func (e *DefaultReservationEngine) lookupExperience(ctx context.Context, id string) (*models.Experience, error) {
	experience, err := e.Catalog.GetExperience(ctx, id)
	if err != nil {
		if errors.Is(err, experienceRepo.ErrExperienceNotFound) {
			return nil, ErrExperienceNotFound
		}
		return nil, storageError("load experience", err)
	}
	return experience, nil
}

func findSlot(slots []models.SlotInventory, label string) (models.SlotInventory, bool) {
	for _, s := range slots {
		if s.Label == label {
			return s, true
		}
	}
	return models.SlotInventory{}, false
}

func (e *DefaultReservationEngine) decrementFailure(ctx context.Context, key models.SlotKey, requested int, err error) error {
	switch {
	case errors.Is(err, inventoryRepo.ErrInsufficientUnits):
		current, getErr := e.Inventory.Get(ctx, key)
		if getErr != nil {
			return newInsufficient(0, requested)
		}
		return newInsufficient(current.AvailableUnits, requested)
	case errors.Is(err, inventoryRepo.ErrSlotNotFound):
		return ErrSlotNotFound
	default:
		return storageError("reserve units", err)
	}
}

// compensateDecrement returns units taken for a booking that was never written.
func (e *DefaultReservationEngine) compensateDecrement(ctx context.Context, key models.SlotKey, units int) {
	if _, err := e.Inventory.Increment(ctx, key, units); err != nil {
		e.Logger.Error("Failed to compensate slot decrement",
			zap.String("experienceId", key.ExperienceID),
			zap.String("date", key.Date),
			zap.String("slot", key.Label),
			zap.Int("units", units),
			zap.Error(err))
		e.reportDrift(ctx, key.ExperienceID, "compensation failed after booking write error")
		return
	}
	e.Logger.Warn("Compensated slot decrement after failed booking write",
		zap.String("experienceId", key.ExperienceID),
		zap.String("slot", key.Label),
		zap.Int("units", units))
}
