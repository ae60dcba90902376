package booking

import (
	"context"

	"go.uber.org/zap"

	"experiencehub/models"
)

// SlotReport compares a slot's counter with the bookings that hold it.
// Drift is Consumed minus Booked; zero means the slot is consistent.
type SlotReport struct {
	Slot           models.SlotKey `json:"slot"`
	TotalUnits     int            `json:"totalUnits"`
	AvailableUnits int            `json:"availableUnits"`
	Booked         int            `json:"booked"`
	Consumed       int            `json:"consumed"`
	Drift          int            `json:"drift"`
}

func (r SlotReport) Consistent() bool {
	return r.Drift == 0
}

// Reconcile checks every slot of the experience against its active bookings.
// It only reports; counters are never rewritten here.
func (e *DefaultReservationEngine) Reconcile(ctx context.Context, experienceID string) ([]SlotReport, error) {
	slots, err := e.Inventory.ListByExperience(ctx, experienceID)
	if err != nil {
		return nil, storageError("load slots", err)
	}
	if len(slots) == 0 {
		if _, err := e.lookupExperience(ctx, experienceID); err != nil {
			return nil, err
		}
	}

	booked, err := e.Bookings.ActiveQuantities(ctx, experienceID)
	if err != nil {
		return nil, storageError("sum active bookings", err)
	}

	reports := make([]SlotReport, 0, len(slots))
	for _, slot := range slots {
		key := slot.Key()
		report := SlotReport{
			Slot:           key,
			TotalUnits:     slot.TotalUnits,
			AvailableUnits: slot.AvailableUnits,
			Booked:         booked[key],
			Consumed:       slot.Consumed(),
		}
		report.Drift = report.Consumed - report.Booked
		if !report.Consistent() {
			e.Logger.Warn("Inventory drift detected",
				zap.String("experienceId", key.ExperienceID),
				zap.String("date", key.Date),
				zap.String("slot", key.Label),
				zap.Int("booked", report.Booked),
				zap.Int("consumed", report.Consumed),
				zap.Int("drift", report.Drift))
		}
		reports = append(reports, report)
	}
	return reports, nil
}
