package models

import (
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	// BookingPending is reserved; nothing creates pending bookings yet.
	BookingPending BookingStatus = "pending"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingConfirmed: {BookingCancelled},
}

// CanTransitionTo reports whether next is a valid successor of s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether a booking in this status holds inventory.
func (s BookingStatus) IsActive() bool {
	return s != BookingCancelled
}

// Booking is the durable record of a reservation.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	ExperienceID  string        `bson:"experienceId" json:"experienceId"`
	Date          string        `bson:"date" json:"date"`
	SlotLabel     string        `bson:"slotLabel" json:"slotLabel"`
	CustomerName  string        `bson:"customerName" json:"customerName"`
	CustomerEmail string        `bson:"customerEmail" json:"customerEmail"`
	CustomerPhone string        `bson:"customerPhone" json:"customerPhone"`
	Quantity      int           `bson:"quantity" json:"quantity"`
	TotalPrice    float64       `bson:"totalPrice" json:"totalPrice"`
	Status        BookingStatus `bson:"status" json:"status"`
	// Active mirrors Status.IsActive(); the partial unique index keys on it.
	Active    bool      `bson:"active" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (b Booking) SlotKey() SlotKey {
	return SlotKey{ExperienceID: b.ExperienceID, Date: b.Date, Label: b.SlotLabel}
}

// NewConfirmedBooking builds the booking a successful reservation persists.
// The total price is frozen here.
func NewConfirmedBooking(id string, key SlotKey, customer CustomerDetails, quantity int, unitPrice float64, now time.Time) *Booking {
	return &Booking{
		ID:            id,
		ExperienceID:  key.ExperienceID,
		Date:          key.Date,
		SlotLabel:     key.Label,
		CustomerName:  customer.Name,
		CustomerEmail: NormalizeEmail(customer.Email),
		CustomerPhone: customer.Phone,
		Quantity:      quantity,
		TotalPrice:    unitPrice * float64(quantity),
		Status:        BookingConfirmed,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CustomerDetails are opaque contact fields supplied by the customer.
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// NormalizeEmail is the customer identity used for duplicate detection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
