package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	experienceRepo "experiencehub/database/repository/experience"
	"experiencehub/models"
	"experiencehub/services/booking"
	"experiencehub/services/experience"
	"experiencehub/utils"
)

// ExperienceHandler serves the catalog and per-date availability.
type ExperienceHandler struct {
	Service experience.ExperienceService
	Engine  booking.ReservationEngine
}

func NewExperienceHandler(svc experience.ExperienceService, engine booking.ReservationEngine) *ExperienceHandler {
	return &ExperienceHandler{Service: svc, Engine: engine}
}

func (h *ExperienceHandler) ListExperiencesHandler(c *gin.Context) {
	experiences, err := h.Service.List(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to fetch experiences", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch experiences", "")
		return
	}
	c.JSON(http.StatusOK, experiences)
}

func (h *ExperienceHandler) GetExperienceHandler(c *gin.Context) {
	exp, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to fetch experience", err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExperienceHandler) CreateExperienceHandler(c *gin.Context) {
	var req models.CreateExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	exp, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to create experience", err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *ExperienceHandler) UpdateExperienceHandler(c *gin.Context) {
	var details models.ExperienceDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	exp, err := h.Service.UpdateDetails(c.Request.Context(), c.Param("id"), details)
	if err != nil {
		h.respondError(c, "Failed to update experience", err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *ExperienceHandler) DeleteExperienceHandler(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Failed to delete experience", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Experience deleted successfully"})
}

// GetAvailabilityHandler returns one date's slots, or the whole calendar when
// no date is given.
func (h *ExperienceHandler) GetAvailabilityHandler(c *gin.Context) {
	id := c.Param("id")
	date := c.Query("date")

	if date == "" {
		calendar, err := h.Engine.GetCalendar(c.Request.Context(), id)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"experienceId": id, "availabilityCalendar": calendar})
		return
	}

	day, err := h.Engine.GetAvailability(c.Request.Context(), id, date)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"experienceId": id,
		"date":         day.Date,
		"timeSlots":    day.TimeSlots,
	})
}

func (h *ExperienceHandler) respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, experienceRepo.ErrExperienceNotFound):
		utils.JSONError(c, http.StatusNotFound, "Experience not found", "")
	case errors.Is(err, experience.ErrInvalidExperience), errors.Is(err, experience.ErrNoChanges):
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
	default:
		getLogger(c).Error(message, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, message, "")
	}
}
