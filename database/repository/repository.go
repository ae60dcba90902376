// File: database/repository/repository.go
package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	bookingRepo "experiencehub/database/repository/booking"
	experienceRepo "experiencehub/database/repository/experience"
	inventoryRepo "experiencehub/database/repository/inventory"
	memoryRepo "experiencehub/database/repository/memory"
)

// Repositories groups the three stores the services depend on.
type Repositories struct {
	Experiences experienceRepo.ExperienceRepository
	Inventory   inventoryRepo.InventoryRepository
	Bookings    bookingRepo.BookingRepository

	ensure []indexer
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func NewMongoRepositories(db *mongo.Database) *Repositories {
	experiences := experienceRepo.NewMongoExperienceRepo(db)
	inventory := inventoryRepo.NewMongoInventoryRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)

	return &Repositories{
		Experiences: experiences,
		Inventory:   inventory,
		Bookings:    bookings,
		ensure:      []indexer{experiences, inventory, bookings},
	}
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Experiences: memoryRepo.NewExperienceStore(),
		Inventory:   memoryRepo.NewInventoryStore(),
		Bookings:    memoryRepo.NewBookingStore(),
	}
}

// EnsureIndexes creates the Mongo indexes. It is a no-op for the memory driver.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for _, idx := range r.ensure {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}
