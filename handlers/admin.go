// File: handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"experiencehub/services/booking"
)

// AdminHandler encapsulates operator-level operations.
type AdminHandler struct {
	Engine booking.ReservationEngine
}

func NewAdminHandler(engine booking.ReservationEngine) *AdminHandler {
	return &AdminHandler{Engine: engine}
}

// ReconcileHandler compares slot counters with active bookings for one experience.
func (ah *AdminHandler) ReconcileHandler(c *gin.Context) {
	id := c.Param("experienceId")
	reports, err := ah.Engine.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	consistent := true
	for _, r := range reports {
		if !r.Consistent() {
			consistent = false
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"experienceId": id,
		"consistent":   consistent,
		"slots":        reports,
	})
}
