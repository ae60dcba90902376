package experience

import (
	"fmt"

	"experiencehub/models"
	"experiencehub/utils"
)

// buildCalendarInput normalizes dates and rejects duplicate dates or labels.
// The flat dates/slots shorthand is expanded when no calendar is given.
func buildCalendarInput(req models.CreateExperienceRequest) ([]models.CalendarEntryInput, error) {
	entries := req.AvailabilityCalendar
	if len(entries) == 0 && len(req.Dates) > 0 {
		if len(req.Slots) == 0 {
			return nil, fmt.Errorf("%w: dates given without slots", ErrInvalidExperience)
		}
		for _, d := range req.Dates {
			entry := models.CalendarEntryInput{Date: d}
			for _, label := range req.Slots {
				entry.TimeSlots = append(entry.TimeSlots, models.SlotInput{Label: label, TotalUnits: req.DefaultCapacity})
			}
			entries = append(entries, entry)
		}
	}

	seenDates := make(map[string]bool, len(entries))
	out := make([]models.CalendarEntryInput, 0, len(entries))
	for _, entry := range entries {
		date, err := utils.NormalizeDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExperience, err)
		}
		if seenDates[date] {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrInvalidExperience, date)
		}
		seenDates[date] = true

		seenLabels := make(map[string]bool, len(entry.TimeSlots))
		for _, slot := range entry.TimeSlots {
			if seenLabels[slot.Label] {
				return nil, fmt.Errorf("%w: duplicate slot %q on %s", ErrInvalidExperience, slot.Label, date)
			}
			if slot.TotalUnits < 0 {
				return nil, fmt.Errorf("%w: slot %q has negative capacity", ErrInvalidExperience, slot.Label)
			}
			seenLabels[slot.Label] = true
		}

		out = append(out, models.CalendarEntryInput{Date: date, TimeSlots: entry.TimeSlots})
	}
	return out, nil
}

func slotDocuments(experienceID string, calendar []models.CalendarEntryInput) []models.SlotInventory {
	var slots []models.SlotInventory
	for _, entry := range calendar {
		for i, s := range entry.TimeSlots {
			slots = append(slots, models.SlotInventory{
				ExperienceID:   experienceID,
				Date:           entry.Date,
				Label:          s.Label,
				Position:       i,
				TotalUnits:     s.TotalUnits,
				AvailableUnits: s.TotalUnits,
			})
		}
	}
	return slots
}
