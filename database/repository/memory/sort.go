package memoryRepo

import (
	"sort"

	"experiencehub/models"
)

func sortSlots(slots []models.SlotInventory) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Position < slots[j].Position
	})
}

func sortByCreatedAt(bookings []models.Booking, newestFirst bool) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if newestFirst {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
}

func sortExperiences(experiences []models.Experience) {
	sort.SliceStable(experiences, func(i, j int) bool {
		return experiences[i].CreatedAt.After(experiences[j].CreatedAt)
	})
}
