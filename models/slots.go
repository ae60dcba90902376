package models

import (
	"sort"
	"time"
)

// DateLayout is the calendar-date form every date is normalized to.
const DateLayout = "2006-01-02"

// SlotKey addresses one inventory counter.
type SlotKey struct {
	ExperienceID string `json:"experienceId"`
	Date         string `json:"date"`
	Label        string `json:"label"`
}

// SlotInventory is the stored per-slot aggregate. AvailableUnits is the only
// field that changes after creation, and only via conditional updates.
type SlotInventory struct {
	ID             string    `bson:"id" json:"id"`
	ExperienceID   string    `bson:"experienceId" json:"experienceId"`
	Date           string    `bson:"date" json:"date"`
	Label          string    `bson:"label" json:"label"`
	Position       int       `bson:"position" json:"position"`
	TotalUnits     int       `bson:"totalUnits" json:"totalUnits"`
	AvailableUnits int       `bson:"availableUnits" json:"availableUnits"`
	Version        int       `bson:"version" json:"version"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (s SlotInventory) Key() SlotKey {
	return SlotKey{ExperienceID: s.ExperienceID, Date: s.Date, Label: s.Label}
}

// Consumed is the number of units currently held by bookings.
func (s SlotInventory) Consumed() int {
	return s.TotalUnits - s.AvailableUnits
}

func (s SlotInventory) Availability() SlotAvailability {
	return SlotAvailability{
		Label:          s.Label,
		TotalUnits:     s.TotalUnits,
		AvailableUnits: s.AvailableUnits,
	}
}

// DateAvailability lists the slots of one calendar date.
type DateAvailability struct {
	Date      string             `json:"date"`
	TimeSlots []SlotAvailability `json:"timeSlots"`
}

type SlotAvailability struct {
	Label          string `json:"label"`
	TotalUnits     int    `json:"totalUnits"`
	AvailableUnits int    `json:"availableUnits"`
}

// SoldOut reports whether no unit is left.
func (s SlotAvailability) SoldOut() bool {
	return s.AvailableUnits == 0
}

// BuildCalendar groups slot documents by date, ordered by date then position.
func BuildCalendar(slots []SlotInventory) []DateAvailability {
	sorted := make([]SlotInventory, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Position < sorted[j].Position
	})

	calendar := make([]DateAvailability, 0)
	for _, s := range sorted {
		n := len(calendar)
		if n == 0 || calendar[n-1].Date != s.Date {
			calendar = append(calendar, DateAvailability{Date: s.Date})
			n++
		}
		calendar[n-1].TimeSlots = append(calendar[n-1].TimeSlots, s.Availability())
	}
	return calendar
}
