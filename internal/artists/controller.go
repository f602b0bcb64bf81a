package artists

import (
	"errors"
	"net/http"

	"gigtune/internal/shared/middleware"
	"gigtune/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateProfile handles POST /api/v1/artists
func (c *Controller) CreateProfile(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	profile, err := c.service.CreateProfile(ctx.Request.Context(), actor, req)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Profile created successfully", profile)
}

// GetProfile handles GET /api/v1/artists/:id
func (c *Controller) GetProfile(ctx *gin.Context) {
	profileID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid profile ID", nil)
		return
	}

	var actorPtr *middleware.Actor
	if actor, ok := middleware.GetActor(ctx); ok {
		actorPtr = &actor
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), profileID, actorPtr)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/v1/artists/:id
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	profileID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid profile ID", nil)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), actor, profileID, req)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Profile updated successfully", profile)
}

// PublishProfile handles POST /api/v1/artists/:id/publish
func (c *Controller) PublishProfile(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	profileID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid profile ID", nil)
		return
	}

	profile, err := c.service.PublishProfile(ctx.Request.Context(), actor, profileID)
	if err != nil {
		respondDomainError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Profile published successfully", profile)
}

// ListTerms handles GET /api/v1/artists/terms
func (c *Controller) ListTerms(ctx *gin.Context) {
	terms, err := c.service.ListTerms(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list terms", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Terms retrieved successfully", terms)
}

// respondDomainError maps domain errors to HTTP status codes.
func respondDomainError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(ctx, http.StatusNotFound, "Artist profile not found", nil)
	case errors.Is(err, ErrValidation):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		response.Error(ctx, http.StatusForbidden, "Access denied", nil)
	case errors.Is(err, ErrVersionConflict):
		response.Error(ctx, http.StatusConflict, "Profile was modified concurrently, please retry", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, "Internal server error", nil)
	}
}
