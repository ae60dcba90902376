package inventoryRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"experiencehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DecrementIfAvailable takes units from the slot only if at least that many are
// available. The precondition lives in the update filter, so concurrent callers
// across processes are applied one at a time by the server.
func (r *MongoInventoryRepo) DecrementIfAvailable(ctx context.Context, key models.SlotKey, units int) (*models.SlotInventory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := keyFilter(key)
	filter["availableUnits"] = bson.M{"$gte": units}

	update := bson.M{
		"$inc": bson.M{
			"availableUnits": -units,
			"version":        1,
		},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	return r.conditionalUpdate(ctx, key, filter, update, ErrInsufficientUnits)
}

// Increment returns units to the slot. The filter refuses any restore that would
// push availableUnits past totalUnits.
func (r *MongoInventoryRepo) Increment(ctx context.Context, key models.SlotKey, units int) (*models.SlotInventory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := keyFilter(key)
	filter["$expr"] = bson.M{
		"$lte": bson.A{
			bson.M{"$add": bson.A{"$availableUnits", units}},
			"$totalUnits",
		},
	}

	update := bson.M{
		"$inc": bson.M{
			"availableUnits": units,
			"version":        1,
		},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	return r.conditionalUpdate(ctx, key, filter, update, ErrCapacityExceeded)
}

// conditionalUpdate applies update and, when the filter matched nothing, tells
// a missing slot apart from a failed precondition.
func (r *MongoInventoryRepo) conditionalUpdate(ctx context.Context, key models.SlotKey, filter, update bson.M, preconditionErr error) (*models.SlotInventory, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.SlotInventory
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err == nil {
		return &slot, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update slot units: %w", err)
	}

	if _, getErr := r.Get(ctx, key); getErr != nil {
		return nil, getErr
	}
	return nil, preconditionErr
}
