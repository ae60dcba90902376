// File: database/repository/inventory/crud.go
package inventoryRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"experiencehub/models"
)

func (r *MongoInventoryRepo) CreateMany(ctx context.Context, slots []models.SlotInventory) error {
	if len(slots) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.UpdatedAt = now
		docs[i] = slot
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to insert slots: %w", err)
	}
	return nil
}

func (r *MongoInventoryRepo) ListByExperience(ctx context.Context, experienceID string) ([]models.SlotInventory, error) {
	return r.find(ctx, bson.M{"experienceId": experienceID})
}

func (r *MongoInventoryRepo) ListByExperienceAndDate(ctx context.Context, experienceID, date string) ([]models.SlotInventory, error) {
	return r.find(ctx, bson.M{"experienceId": experienceID, "date": date})
}

func (r *MongoInventoryRepo) find(ctx context.Context, filter bson.M) ([]models.SlotInventory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "position", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := make([]models.SlotInventory, 0)
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (r *MongoInventoryRepo) Get(ctx context.Context, key models.SlotKey) (*models.SlotInventory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.SlotInventory
	err := r.coll.FindOne(ctx, keyFilter(key)).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return &slot, nil
}

func (r *MongoInventoryRepo) DeleteByExperience(ctx context.Context, experienceID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"experienceId": experienceID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete slots for experience %s: %w", experienceID, err)
	}
	return res.DeletedCount, nil
}

func (r *MongoInventoryRepo) DeleteSlot(ctx context.Context, key models.SlotKey) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func keyFilter(key models.SlotKey) bson.M {
	return bson.M{
		"experienceId": key.ExperienceID,
		"date":         key.Date,
		"label":        key.Label,
	}
}
