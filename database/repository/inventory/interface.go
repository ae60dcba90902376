// File: database/repository/inventory/interface.go
package inventoryRepo

import (
	"context"
	"errors"

	"experiencehub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrSlotNotFound      = errors.New("slot not found")
	ErrInsufficientUnits = errors.New("insufficient available units")
	// ErrCapacityExceeded means a restore would lift availableUnits above totalUnits.
	ErrCapacityExceeded = errors.New("restore would exceed slot capacity")
)

// InventoryRepository stores one document per (experience, date, slot).
// DecrementIfAvailable and Increment are single conditional updates; they are
// the only writes to availableUnits.
type InventoryRepository interface {
	CreateMany(ctx context.Context, slots []models.SlotInventory) error
	ListByExperience(ctx context.Context, experienceID string) ([]models.SlotInventory, error)
	ListByExperienceAndDate(ctx context.Context, experienceID, date string) ([]models.SlotInventory, error)
	Get(ctx context.Context, key models.SlotKey) (*models.SlotInventory, error)
	DecrementIfAvailable(ctx context.Context, key models.SlotKey, units int) (*models.SlotInventory, error)
	Increment(ctx context.Context, key models.SlotKey, units int) (*models.SlotInventory, error)
	DeleteByExperience(ctx context.Context, experienceID string) (int64, error)
	DeleteSlot(ctx context.Context, key models.SlotKey) error
}

// MongoInventoryRepo implements InventoryRepository on the slot_inventory collection.
type MongoInventoryRepo struct {
	coll *mongo.Collection
}

// NewMongoInventoryRepo constructs a new MongoDB InventoryRepository.
func NewMongoInventoryRepo(db *mongo.Database) *MongoInventoryRepo {
	return &MongoInventoryRepo{
		coll: db.Collection("slot_inventory"),
	}
}
