package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"experiencehub/models"
	"experiencehub/services/booking"
	"experiencehub/utils"
)

type BookingHandler struct {
	Engine booking.ReservationEngine
}

func NewBookingHandler(engine booking.ReservationEngine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Engine.Reserve(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed successfully",
		"booking": b,
	})
}

// ListBookingsHandler lists every booking, newest first unless ?order=asc.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	newestFirst := c.DefaultQuery("order", "desc") != "asc"

	bookings, err := h.Engine.ListBookings(c.Request.Context(), newestFirst)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Engine.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	result, err := h.Engine.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"outcome": result.Outcome,
		"booking": result.Booking,
	})
}
