// File: handlers/bundle.go
package handlers

import "experiencehub/utils"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Experiences *ExperienceHandler
	Bookings    *BookingHandler
	Promo       *PromoHandler
	Admin       *AdminHandler
	Health      *utils.HealthMonitor
}
