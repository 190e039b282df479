package handlers

import (
	"context"
	"errors"
	"net/http"

	"chalethaven/models"
	"chalethaven/services/booking"
	"chalethaven/services/listing"
	"chalethaven/services/payment"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutService interface {
	Configured() bool
	Initiate(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutResponse struct {
	Success    bool   `json:"success"`
	SessionURL string `json:"sessionUrl"`
	SessionID  string `json:"sessionId"`
	Reference  string `json:"reference,omitempty"`
}

// CreateSession handles POST /api/stripe/create-checkout-session.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	logger := getLogger(c)
	if !h.svc.Configured() {
		utils.JSONError(c, http.StatusServiceUnavailable, "Payments are not configured", "")
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	session, err := h.svc.Initiate(c.Request.Context(), req)
	if err != nil {
		var ve *booking.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, listing.ErrNotFound),
			errors.Is(err, payment.ErrAmountMismatch),
			errors.Is(err, payment.ErrCurrencyMismatch),
			errors.Is(err, payment.ErrInvalidBooking),
			errors.Is(err, payment.ErrNotConfigured):
			respondError(c, err)
		default:
			logger.Error("Failed to create checkout session", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "Failed to create checkout session", "")
		}
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{
		Success:    true,
		SessionURL: session.URL,
		SessionID:  session.ID,
		Reference:  session.Reference,
	})
}
