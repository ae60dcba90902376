package booking

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable, machine-readable kind of a booking failure.
type ErrorCode string

const (
	CodeExperienceNotFound       ErrorCode = "EXPERIENCE_NOT_FOUND"
	CodeDateUnavailable          ErrorCode = "DATE_UNAVAILABLE"
	CodeSlotNotFound             ErrorCode = "SLOT_NOT_FOUND"
	CodeInvalidQuantity          ErrorCode = "INVALID_QUANTITY"
	CodeDuplicateBooking         ErrorCode = "DUPLICATE_BOOKING"
	CodeInsufficientAvailability ErrorCode = "INSUFFICIENT_AVAILABILITY"
	CodeBookingNotFound          ErrorCode = "BOOKING_NOT_FOUND"
	CodeAlreadyCancelled         ErrorCode = "ALREADY_CANCELLED"
	CodeInvalidTransition        ErrorCode = "INVALID_TRANSITION"
	CodeStorageUnavailable       ErrorCode = "STORAGE_UNAVAILABLE"
)

// Error is returned by every engine operation. Two errors match under
// errors.Is when their codes are equal, so callers compare against the
// package sentinels below.
type Error struct {
	Code    ErrorCode
	Message string

	// Set for CodeInsufficientAvailability.
	Available int
	Requested int

	BookingID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// SoldOut distinguishes a sold-out slot from a partial shortage.
func (e *Error) SoldOut() bool {
	return e.Code == CodeInsufficientAvailability && e.Available == 0
}

var (
	ErrExperienceNotFound       = &Error{Code: CodeExperienceNotFound, Message: "Experience not found"}
	ErrDateUnavailable          = &Error{Code: CodeDateUnavailable, Message: "No availability for this date"}
	ErrSlotNotFound             = &Error{Code: CodeSlotNotFound, Message: "Time slot not found"}
	ErrInvalidQuantity          = &Error{Code: CodeInvalidQuantity, Message: "Quantity must be at least 1"}
	ErrDuplicateBooking         = &Error{Code: CodeDuplicateBooking, Message: "You already have a booking for this date and time slot"}
	ErrInsufficientAvailability = &Error{Code: CodeInsufficientAvailability, Message: "Not enough units available"}
	ErrBookingNotFound          = &Error{Code: CodeBookingNotFound, Message: "Booking not found"}
	ErrAlreadyCancelled         = &Error{Code: CodeAlreadyCancelled, Message: "Booking is already cancelled"}
	ErrInvalidTransition        = &Error{Code: CodeInvalidTransition, Message: "Booking cannot be cancelled in its current state"}
	ErrStorageUnavailable       = &Error{Code: CodeStorageUnavailable, Message: "Storage is temporarily unavailable"}
)

func newInsufficient(available, requested int) *Error {
	msg := fmt.Sprintf("Only %d slots available", available)
	if available == 0 {
		msg = "This time slot is sold out"
	}
	return &Error{
		Code:      CodeInsufficientAvailability,
		Message:   msg,
		Available: available,
		Requested: requested,
	}
}

func storageError(op string, err error) *Error {
	return &Error{
		Code:    CodeStorageUnavailable,
		Message: fmt.Sprintf("failed to %s", op),
		Err:     err,
	}
}

// IsNotFound reports whether err means the requested experience, date, slot or
// booking does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExperienceNotFound) ||
		errors.Is(err, ErrDateUnavailable) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrBookingNotFound)
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
