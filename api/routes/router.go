// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"gigtune/internal/artists"
	"gigtune/internal/bookings"
	"gigtune/internal/search"
	"gigtune/internal/shared/config"
	"gigtune/internal/shared/database"
	"gigtune/pkg/cache"
	"gigtune/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	publisher bookings.EventPublisher
	log       *logger.Logger

	bookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, publisher bookings.EventPublisher, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		cache:     cacheService,
		publisher: publisher,
		log:       log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		artistRepo := artists.NewRepository(r.db.GetPostgreSQL())
		artistService := artists.NewService(artistRepo, r.cache, r.log)
		artistController := artists.NewController(artistService)
		artists.SetupArtistRoutes(api, artistController, r.config)

		stateMachine := bookings.NewStateMachine(bookings.Timers{
			RequestExpiry: r.config.Booking.RequestExpiry,
			DisputeWindow: r.config.Booking.DisputeWindow,
			AutoComplete:  r.config.Booking.AutoComplete,
		})
		bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
		r.bookingService = bookings.NewService(bookingRepo, artistService, r.publisher, stateMachine, r.log)
		bookingController := bookings.NewController(r.bookingService)
		bookings.SetupBookingRoutes(api, bookingController, r.config)

		searchService := search.NewService(artistRepo, r.cache, r.log)
		searchController := search.NewController(searchService)
		search.SetupSearchRoutes(api, searchController)
	}
}

// BookingService exposes the wired booking service so the timeout
// sweeper can share it. Valid after SetupRoutes.
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "gigtune-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "gigtune-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
