package experienceRepo

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

// Create inserts a new experience document.
func (r *MongoExperienceRepo) Create(ctx context.Context, experience *models.Experience) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, experience); err != nil {
		return fmt.Errorf("failed to create experience: %w", err)
	}
	return nil
}

// GetByID retrieves an experience document by ID.
func (r *MongoExperienceRepo) GetByID(ctx context.Context, id string) (*models.Experience, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var experience models.Experience
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&experience); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("error fetching experience with id %s: %w", id, err)
	}
	return &experience, nil
}

// List returns every experience, newest first.
func (r *MongoExperienceRepo) List(ctx context.Context) ([]models.Experience, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch experiences: %w", err)
	}
	defer cursor.Close(ctx)

	experiences := make([]models.Experience, 0)
	if err := cursor.All(ctx, &experiences); err != nil {
		return nil, fmt.Errorf("error decoding experiences: %w", err)
	}
	return experiences, nil
}

// UpdateDetails sets the supplied descriptive fields and returns the new document.
func (r *MongoExperienceRepo) UpdateDetails(ctx context.Context, id string, details models.ExperienceDetails) (*models.Experience, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if details.Title != nil {
		set["title"] = *details.Title
	}
	if details.Location != nil {
		set["location"] = *details.Location
	}
	if details.Description != nil {
		set["description"] = *details.Description
	}
	if details.Price != nil {
		set["price"] = *details.Price
	}
	if details.ImageURL != nil {
		set["imageUrl"] = *details.ImageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Experience
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExperienceNotFound
		}
		return nil, fmt.Errorf("failed to update experience %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes the experience document by ID.
func (r *MongoExperienceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete experience %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrExperienceNotFound
	}
	return nil
}

// EnsureIndexes creates the unique id and listing indexes.
func (r *MongoExperienceRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("created_at_desc_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create experience indexes: %w", err)
	}
	return nil
}
