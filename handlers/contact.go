package handlers

import (
	"context"
	"net/http"

	"chalethaven/models"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

type ContactService interface {
	Submit(ctx context.Context, req models.ContactRequest) (*models.Lead, error)
}

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if _, err := h.svc.Submit(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse{Success: true, Message: "Thanks, we will be in touch shortly."})
}
