package bookings

import (
	"gigtune/internal/shared/config"
	"gigtune/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures the booking lifecycle routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	auth := middleware.JWTAuthWithConfig(cfg)

	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		// Client actions
		bookings.POST("", middleware.RequireRole(middleware.RoleClient), controller.CreateBooking)
		bookings.POST("/:id/confirm", middleware.RequireRole(middleware.RoleClient), controller.Confirm)
		bookings.POST("/:id/dispute", middleware.RequireRole(middleware.RoleClient), controller.Dispute)
		bookings.POST("/:id/no-show", middleware.RequireRole(middleware.RoleClient), controller.ReportNoShow)
		bookings.POST("/:id/rating", middleware.RequireRole(middleware.RoleClient), controller.SubmitRating)

		// Artist actions
		bookings.POST("/:id/respond", middleware.RequireRole(middleware.RoleArtist), controller.Respond)
		bookings.POST("/:id/complete", middleware.RequireRole(middleware.RoleArtist), controller.MarkCompleted)
		bookings.POST("/:id/cancel", middleware.RequireRole(middleware.RoleArtist), controller.Cancel)

		// Participant reads
		bookings.GET("/:id", controller.GetBooking)
	}

	// List views hang off the owning resource
	rg.GET("/clients/bookings", auth, middleware.RequireRole(middleware.RoleClient), controller.GetClientBookings)
	rg.GET("/artists/:id/bookings", auth, middleware.RequireRole(middleware.RoleArtist), controller.GetArtistBookings)
}
