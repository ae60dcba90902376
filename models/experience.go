package models

import "time"

// Experience is a bookable activity. Its AvailabilityCalendar is not stored on
// the experience document; it is assembled from SlotInventory documents.
type Experience struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Location    string    `bson:"location" json:"location"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	ImageURL    string    `bson:"imageUrl" json:"imageUrl"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`

	AvailabilityCalendar []DateAvailability `bson:"-" json:"availabilityCalendar,omitempty"`
}

// ExperienceDetails carries the descriptive fields an administrator may edit.
// Nil fields are left untouched. Slot capacity is not editable here.
type ExperienceDetails struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=1"`
	Location    *string  `json:"location,omitempty" binding:"omitempty,min=1"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (d ExperienceDetails) IsEmpty() bool {
	return d.Title == nil && d.Location == nil && d.Description == nil && d.Price == nil && d.ImageURL == nil
}

// Apply copies the supplied fields onto e.
func (d ExperienceDetails) Apply(e *Experience) {
	if d.Title != nil {
		e.Title = *d.Title
	}
	if d.Location != nil {
		e.Location = *d.Location
	}
	if d.Description != nil {
		e.Description = *d.Description
	}
	if d.Price != nil {
		e.Price = *d.Price
	}
	if d.ImageURL != nil {
		e.ImageURL = *d.ImageURL
	}
}

// CreateExperienceRequest is the administrative payload for a new experience.
// When AvailabilityCalendar is empty, every (Dates x Slots) pair is generated
// with DefaultCapacity units.
type CreateExperienceRequest struct {
	Title                string               `json:"title" validate:"required"`
	Location             string               `json:"location" validate:"required"`
	Description          string               `json:"description" validate:"required"`
	Price                float64              `json:"price" validate:"gte=0"`
	ImageURL             string               `json:"imageUrl" validate:"required"`
	AvailabilityCalendar []CalendarEntryInput `json:"availabilityCalendar" validate:"dive"`

	Dates           []string `json:"dates" validate:"dive,required"`
	Slots           []string `json:"slots" validate:"dive,required"`
	DefaultCapacity int      `json:"defaultCapacity" validate:"gte=0"`
}

type CalendarEntryInput struct {
	Date      string      `json:"date" validate:"required"`
	TimeSlots []SlotInput `json:"timeSlots" validate:"required,min=1,dive"`
}

type SlotInput struct {
	Label      string `json:"label" validate:"required"`
	TotalUnits int    `json:"totalUnits" validate:"gte=0"`
}
