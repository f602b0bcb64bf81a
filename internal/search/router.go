package search

import "github.com/gin-gonic/gin"

// SetupSearchRoutes configures the public artist search routes
func SetupSearchRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/search/artists", controller.SearchArtists)
}
