// FILE: database/repository/inventory/indexes.go
package inventoryRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the slot_inventory collection.
func (r *MongoInventoryRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One counter per (experience, date, label); also the primary query pattern.
		{
			Keys: bson.D{
				{Key: "experienceId", Value: 1},
				{Key: "date", Value: 1},
				{Key: "label", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("experience_date_label_idx"),
		},
		{
			Keys:    bson.D{{Key: "experienceId", Value: 1}, {Key: "date", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("experience_date_position_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create slot inventory indexes: %w", err)
	}
	return nil
}
