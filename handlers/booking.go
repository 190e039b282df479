package handlers

import (
	"context"
	"net/http"
	"time"

	"chalethaven/models"
	"chalethaven/services/booking"
	"chalethaven/services/pricing"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

// ListingGetter resolves a listing by slug.
type ListingGetter interface {
	Get(ctx context.Context, slugOrID string) (*models.Listing, error)
}

// BookingHandler serves the step-one quote of the booking form.
type BookingHandler struct {
	listings ListingGetter
	now      func() time.Time
}

func NewBookingHandler(listings ListingGetter) *BookingHandler {
	return &BookingHandler{listings: listings, now: time.Now}
}

// Quote handles POST /api/bookings/quote.
func (h *BookingHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	draft, err := models.BookingPayload{
		ListingSlug: req.Slug,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		Adults:      req.Adults,
		Children:    req.Children,
	}.Draft()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Dates must use the YYYY-MM-DD format", "")
		return
	}

	l, err := h.listings.Get(c.Request.Context(), req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := booking.ValidateDatesAndGuests(draft, *l, h.now()); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, pricing.Calculate(draft.CheckIn, draft.CheckOut, l.Pricing))
}
