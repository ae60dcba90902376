package experience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	experienceRepo "experiencehub/database/repository/experience"
	inventoryRepo "experiencehub/database/repository/inventory"
	"experiencehub/models"
)

var (
	ErrInvalidExperience = errors.New("invalid experience")
	ErrNoChanges         = errors.New("no fields to update")
)

// ExperienceService is the experience catalog: administrative CRUD plus the
// lookups the reservation engine and the storefront need.
type ExperienceService interface {
	Create(ctx context.Context, req models.CreateExperienceRequest) (*models.Experience, error)
	List(ctx context.Context) ([]models.Experience, error)
	Get(ctx context.Context, id string) (*models.Experience, error)
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
	UpdateDetails(ctx context.Context, id string, details models.ExperienceDetails) (*models.Experience, error)
	Delete(ctx context.Context, id string) error
}

type DefaultExperienceService struct {
	Repo      experienceRepo.ExperienceRepository
	Inventory inventoryRepo.InventoryRepository
	// Cache may be nil; the listing is then read from the repository each time.
	Cache    *CatalogCache
	Validate *validator.Validate
	Logger   *zap.Logger
}

func NewExperienceService(
	repo experienceRepo.ExperienceRepository,
	inventory inventoryRepo.InventoryRepository,
	cache *CatalogCache,
	logger *zap.Logger,
) *DefaultExperienceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultExperienceService{
		Repo:      repo,
		Inventory: inventory,
		Cache:     cache,
		Validate:  validator.New(),
		Logger:    logger,
	}
}

func (s *DefaultExperienceService) Create(ctx context.Context, req models.CreateExperienceRequest) (*models.Experience, error) {
	if err := s.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExperience, err)
	}

	calendar, err := buildCalendarInput(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	experience := &models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, experience); err != nil {
		return nil, err
	}

	slots := slotDocuments(experience.ID, calendar)
	if err := s.Inventory.CreateMany(ctx, slots); err != nil {
		// Don't leave an experience behind that has no bookable slots.
		if delErr := s.Repo.Delete(context.WithoutCancel(ctx), experience.ID); delErr != nil {
			s.Logger.Error("Failed to remove experience after slot creation error",
				zap.String("experienceId", experience.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	experience.AvailabilityCalendar = models.BuildCalendar(slots)
	s.invalidate(ctx)

	s.Logger.Info("Experience created",
		zap.String("experienceId", experience.ID),
		zap.String("title", experience.Title),
		zap.Int("slots", len(slots)))
	return experience, nil
}

// List returns experiences newest first, without calendars.
func (s *DefaultExperienceService) List(ctx context.Context) ([]models.Experience, error) {
	if s.Cache != nil {
		cached, err := s.Cache.GetList(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.Logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	experiences, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetList(ctx, experiences); err != nil {
			s.Logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return experiences, nil
}

// Get returns the experience with its live calendar. Never cached.
func (s *DefaultExperienceService) Get(ctx context.Context, id string) (*models.Experience, error) {
	experience, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slots, err := s.Inventory.ListByExperience(ctx, id)
	if err != nil {
		return nil, err
	}
	experience.AvailabilityCalendar = models.BuildCalendar(slots)
	return experience, nil
}

func (s *DefaultExperienceService) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	return s.Get(ctx, id)
}

func (s *DefaultExperienceService) UpdateDetails(ctx context.Context, id string, details models.ExperienceDetails) (*models.Experience, error) {
	if details.IsEmpty() {
		return nil, ErrNoChanges
	}
	if details.Price != nil && *details.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidExperience)
	}

	updated, err := s.Repo.UpdateDetails(ctx, id, details)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes the experience and its slots. Bookings are kept.
func (s *DefaultExperienceService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	removed, err := s.Inventory.DeleteByExperience(ctx, id)
	if err != nil {
		s.Logger.Error("Failed to delete slots of removed experience",
			zap.String("experienceId", id), zap.Error(err))
	}
	s.invalidate(ctx)

	s.Logger.Info("Experience deleted",
		zap.String("experienceId", id),
		zap.Int64("slotsRemoved", removed))
	return nil
}

func (s *DefaultExperienceService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}
