package booking

import (
	"context"

	"experiencehub/models"
	"experiencehub/utils"
)

// GetAvailability returns the slots of one date with their live counters.
func (e *DefaultReservationEngine) GetAvailability(ctx context.Context, experienceID, date string) (*models.DateAvailability, error) {
	if _, err := e.lookupExperience(ctx, experienceID); err != nil {
		return nil, err
	}

	normalized, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, ErrDateUnavailable
	}

	slots, err := e.Inventory.ListByExperienceAndDate(ctx, experienceID, normalized)
	if err != nil {
		return nil, storageError("load slots", err)
	}
	if len(slots) == 0 {
		return nil, ErrDateUnavailable
	}

	calendar := models.BuildCalendar(slots)
	return &calendar[0], nil
}

// GetCalendar assembles every date of the experience.
func (e *DefaultReservationEngine) GetCalendar(ctx context.Context, experienceID string) ([]models.DateAvailability, error) {
	if _, err := e.lookupExperience(ctx, experienceID); err != nil {
		return nil, err
	}

	slots, err := e.Inventory.ListByExperience(ctx, experienceID)
	if err != nil {
		return nil, storageError("load slots", err)
	}
	return models.BuildCalendar(slots), nil
}
