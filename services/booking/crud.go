package booking

import (
	"context"
	"errors"

	bookingRepo "experiencehub/database/repository/booking"
	"experiencehub/models"
)

func (e *DefaultReservationEngine) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := e.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, storageError("load booking", err)
	}
	return b, nil
}

func (e *DefaultReservationEngine) ListBookings(ctx context.Context, newestFirst bool) ([]models.Booking, error) {
	bookings, err := e.Bookings.ListAll(ctx, newestFirst)
	if err != nil {
		return nil, storageError("list bookings", err)
	}
	return bookings, nil
}
