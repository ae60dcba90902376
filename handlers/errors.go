package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"experiencehub/services/booking"
	"experiencehub/utils"
)

var bookingStatus = map[booking.ErrorCode]int{
	booking.CodeExperienceNotFound:       http.StatusNotFound,
	booking.CodeBookingNotFound:          http.StatusNotFound,
	booking.CodeDateUnavailable:          http.StatusBadRequest,
	booking.CodeSlotNotFound:             http.StatusBadRequest,
	booking.CodeInvalidQuantity:          http.StatusUnprocessableEntity,
	booking.CodeDuplicateBooking:         http.StatusConflict,
	booking.CodeInsufficientAvailability: http.StatusConflict,
	booking.CodeAlreadyCancelled:         http.StatusConflict,
	booking.CodeInvalidTransition:        http.StatusConflict,
	booking.CodeStorageUnavailable:       http.StatusServiceUnavailable,
}

// respondBookingError writes the structured error body for engine failures.
func respondBookingError(c *gin.Context, err error) {
	be, ok := booking.AsError(err)
	if !ok {
		getLogger(c).Error("Unexpected booking error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	status, known := bookingStatus[be.Code]
	if !known {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		getLogger(c).Error("Booking operation failed", zap.String("code", string(be.Code)), zap.Error(err))
	}

	body := gin.H{
		"error": be.Message,
		"code":  be.Code,
	}
	if be.Code == booking.CodeInsufficientAvailability {
		body["available"] = be.Available
		body["requested"] = be.Requested
		body["soldOut"] = be.SoldOut()
	}
	c.JSON(status, body)
}
