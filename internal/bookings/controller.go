package bookings

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

// CreateBooking handles POST /bookings
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := ctrl.service.RequestBooking(c.Request.Context(), actor, req)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking requested", booking)
}

// Respond handles POST /bookings/:id/respond
func (ctrl *Controller) Respond(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := ctrl.service.Respond(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking response recorded", booking)
}

// MarkCompleted handles POST /bookings/:id/complete
func (ctrl *Controller) MarkCompleted(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.MarkCompleted(c.Request.Context(), actor, bookingID)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking marked as completed", booking)
}

// Confirm handles POST /bookings/:id/confirm
func (ctrl *Controller) Confirm(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.Confirm(c.Request.Context(), actor, bookingID)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking confirmed", booking)
}

// Dispute handles POST /bookings/:id/dispute
func (ctrl *Controller) Dispute(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := ctrl.service.Dispute(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dispute raised", booking)
}

// Cancel handles POST /bookings/:id/cancel
func (ctrl *Controller) Cancel(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.Cancel(c.Request.Context(), actor, bookingID)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking cancelled", booking)
}

// ReportNoShow handles POST /bookings/:id/no-show
func (ctrl *Controller) ReportNoShow(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.ReportNoShow(c.Request.Context(), actor, bookingID)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "No-show recorded", booking)
}

// SubmitRating handles POST /bookings/:id/rating
func (ctrl *Controller) SubmitRating(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := ctrl.service.SubmitRating(c.Request.Context(), actor, bookingID, req)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Rating submitted", booking)
}

// GetBooking handles GET /bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	actor, bookingID, ok := ctrl.actorAndID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking retrieved", booking)
}

// GetClientBookings handles GET /clients/bookings
func (ctrl *Controller) GetClientBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	bookings, err := ctrl.service.GetClientBookings(c.Request.Context(), actor, query)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings retrieved", bookings)
}

// GetArtistBookings handles GET /artists/:id/bookings
func (ctrl *Controller) GetArtistBookings(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	artistProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid artist profile ID", nil)
		return
	}

	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	bookings, err := ctrl.service.GetArtistBookings(c.Request.Context(), actor, artistProfileID, query)
	if err != nil {
		ctrl.respondDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings retrieved", bookings)
}

func (ctrl *Controller) actorAndID(c *gin.Context) (middleware.Actor, uuid.UUID, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return middleware.Actor{}, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", nil)
		return middleware.Actor{}, uuid.Nil, false
	}
	return actor, bookingID, true
}

func (ctrl *Controller) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, ErrRequestExpired):
		response.Error(c, http.StatusConflict, "Booking request has expired", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "Invalid booking transition", err.Error())
	case errors.Is(err, ErrVersionConflict):
		response.Error(c, http.StatusConflict, "Booking was modified concurrently, retry", nil)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "You are not a participant of this booking", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
