package bookingRepo

import (
	"context"
	"errors"

	"experiencehub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateActive  = errors.New("an active booking already exists for this customer and slot")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// BookingRepository persists booking records. At most one active booking may
// exist per (slot, customer email); Put reports ErrDuplicateActive otherwise.
type BookingRepository interface {
	Put(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListAll(ctx context.Context, newestFirst bool) ([]models.Booking, error)
	// MarkCancelled flips an active booking to cancelled. Only one caller can
	// win; the rest get ErrAlreadyCancelled.
	MarkCancelled(ctx context.Context, id string) (*models.Booking, error)
	// Reactivate undoes MarkCancelled when the unit restore could not be applied.
	Reactivate(ctx context.Context, id string) (*models.Booking, error)
	FindActive(ctx context.Context, key models.SlotKey, email string) (*models.Booking, error)
	// ActiveQuantities sums the quantity of active bookings per slot.
	ActiveQuantities(ctx context.Context, experienceID string) (map[models.SlotKey]int, error)
}

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
