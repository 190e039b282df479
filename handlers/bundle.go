package handlers

import (
	"errors"
	"net/http"

	"chalethaven/middleware"
	"chalethaven/services/booking"
	"chalethaven/services/contact"
	"chalethaven/services/listing"
	"chalethaven/services/payment"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Auth     *AuthHandler
	Listings *ListingHandler
	Bookings *BookingHandler
	Checkout *CheckoutHandler
	Storage  *StorageHandler
	Contact  *ContactHandler
	Health   *HealthHandler

	// Authenticator backs the JWT middleware on protected groups.
	Authenticator middleware.TokenAuthenticator
	AdminRoles    []string
}

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

// respondError maps domain errors onto the shared error envelope.
func respondError(c *gin.Context, err error) {
	var bve *booking.ValidationError
	var pe *listing.PatchError
	var cve *contact.ValidationError
	switch {
	case errors.As(err, &bve):
		utils.JSONError(c, http.StatusBadRequest, bve.Message, bve.Field)
	case errors.As(err, &pe):
		utils.JSONError(c, http.StatusBadRequest, pe.Error(), pe.Field)
	case errors.As(err, &cve):
		utils.JSONError(c, http.StatusBadRequest, cve.Error(), "")
	case errors.Is(err, listing.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Chalet not found", "")
	case errors.Is(err, listing.ErrSlugTaken):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, payment.ErrAmountMismatch),
		errors.Is(err, payment.ErrCurrencyMismatch),
		errors.Is(err, payment.ErrInvalidBooking):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, payment.ErrNotConfigured):
		utils.JSONError(c, http.StatusServiceUnavailable, err.Error(), "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong, please try again", err.Error())
	}
}
