package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"experiencehub/config"
	"experiencehub/handlers"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterExperienceRoutes registers the catalog and availability endpoints.
func RegisterExperienceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/experiences")
	{
		api.GET("", hb.Experiences.ListExperiencesHandler)
		api.POST("", hb.Experiences.CreateExperienceHandler)
		api.GET("/:id", hb.Experiences.GetExperienceHandler)
		api.PATCH("/:id", hb.Experiences.UpdateExperienceHandler)
		api.DELETE("/:id", hb.Experiences.DeleteExperienceHandler)
		api.GET("/:id/availability", hb.Experiences.GetAvailabilityHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the reservation engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.POST("", hb.Bookings.CreateBookingHandler)
		bookingGroup.GET("", hb.Bookings.ListBookingsHandler)
		bookingGroup.GET("/:id", hb.Bookings.GetBookingHandler)
		bookingGroup.DELETE("/:id", hb.Bookings.CancelBookingHandler)
	}
}

func RegisterPromoRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/promo/validate", hb.Promo.ValidatePromoHandler)
}

// RegisterAdminRoutes sets up endpoints for operator tasks.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.GET("/reconcile/:experienceId", hb.Admin.ReconcileHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and CORS.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterExperienceRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPromoRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
