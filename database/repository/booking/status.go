package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"experiencehub/models"
)

// MarkCancelled is a conditional status flip. Two concurrent cancels race on the
// same filter and the server lets exactly one through.
func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$ne": models.BookingCancelled},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.BookingCancelled,
		"active":    false,
		"updatedAt": time.Now().UTC(),
	}}

	booking, err := r.findAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyCancelled
	}
	return booking, err
}

func (r *MongoBookingRepo) Reactivate(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": models.BookingCancelled}
	update := bson.M{"$set": bson.M{
		"status":    models.BookingConfirmed,
		"active":    true,
		"updatedAt": time.Now().UTC(),
	}}

	booking, err := r.findAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBookingNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateActive
	}
	return booking, err
}

func (r *MongoBookingRepo) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}

type quantityGroup struct {
	ID struct {
		Date      string `bson:"date"`
		SlotLabel string `bson:"slotLabel"`
	} `bson:"_id"`
	Quantity int `bson:"quantity"`
}

// ActiveQuantities aggregates held units per slot for one experience.
func (r *MongoBookingRepo) ActiveQuantities(ctx context.Context, experienceID string) (map[models.SlotKey]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"experienceId": experienceID, "active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"date": "$date", "slotLabel": "$slotLabel"},
			"quantity": bson.M{"$sum": "$quantity"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []quantityGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("error decoding booking aggregates: %w", err)
	}

	totals := make(map[models.SlotKey]int, len(groups))
	for _, g := range groups {
		key := models.SlotKey{ExperienceID: experienceID, Date: g.ID.Date, Label: g.ID.SlotLabel}
		totals[key] = g.Quantity
	}
	return totals, nil
}
