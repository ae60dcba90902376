package experienceRepo

import (
	"context"
	"errors"

	"experiencehub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrExperienceNotFound = errors.New("experience not found")

// ExperienceRepository stores descriptive experience documents. Slot counters
// live in the inventory repository.
type ExperienceRepository interface {
	Create(ctx context.Context, experience *models.Experience) error
	GetByID(ctx context.Context, id string) (*models.Experience, error)
	List(ctx context.Context) ([]models.Experience, error)
	UpdateDetails(ctx context.Context, id string, details models.ExperienceDetails) (*models.Experience, error)
	Delete(ctx context.Context, id string) error
}

// MongoExperienceRepo implements ExperienceRepository using MongoDB.
type MongoExperienceRepo struct {
	coll *mongo.Collection
}

// NewMongoExperienceRepo constructs a new MongoDB ExperienceRepository.
func NewMongoExperienceRepo(db *mongo.Database) *MongoExperienceRepo {
	return &MongoExperienceRepo{
		coll: db.Collection("experiences"),
	}
}
