package artists

import (
	"gigtune/internal/shared/config"
	"gigtune/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupArtistRoutes configures all artist-profile routes
func SetupArtistRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	artists := rg.Group("/artists")
	{
		// Public reads (optional auth so owners see their full profile)
		artists.GET("/terms", controller.ListTerms)
		artists.GET("/:id", middleware.OptionalAuthWithConfig(cfg), controller.GetProfile)

		// Owner-only writes
		authed := artists.Group("")
		authed.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRole(middleware.RoleArtist))
		{
			authed.POST("", controller.CreateProfile)
			authed.PUT("/:id", controller.UpdateProfile)
			authed.POST("/:id/publish", controller.PublishProfile)
		}
	}
}
