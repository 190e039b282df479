package handlers

import (
	"context"
	"net/http"

	"chalethaven/middleware"
	"chalethaven/models"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
)

type ListingService interface {
	Get(ctx context.Context, slugOrID string) (*models.Listing, error)
	List(ctx context.Context, q models.ListingQuery, admin bool) ([]models.Listing, models.Pagination, error)
	Create(ctx context.Context, rec models.ListingRecord) (*models.Listing, error)
	Update(ctx context.Context, slug string, patch models.ListingPatch) (*models.Listing, error)
}

type ListingHandler struct {
	svc        ListingService
	adminRoles map[string]bool
}

func NewListingHandler(svc ListingService, adminRoles []string) *ListingHandler {
	roles := make(map[string]bool, len(adminRoles))
	for _, r := range adminRoles {
		roles[r] = true
	}
	return &ListingHandler{svc: svc, adminRoles: roles}
}

type listResponse struct {
	Success    bool              `json:"success"`
	Data       []models.Listing  `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// List handles GET /api/chalets. Inactive chalets are only listed for admins.
func (h *ListingHandler) List(c *gin.Context) {
	var q models.ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	listings, page, err := h.svc.List(c.Request.Context(), q, h.adminRoles[middleware.Role(c)])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Success: true, Data: listings, Pagination: page})
}

// Get handles GET /api/chalets/:slug.
func (h *ListingHandler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, l)
}

// Create handles POST /api/chalets.
func (h *ListingHandler) Create(c *gin.Context) {
	var rec models.ListingRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	l, err := h.svc.Create(c.Request.Context(), rec)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, l)
}

// Update handles PATCH /api/chalets/:slug.
func (h *ListingHandler) Update(c *gin.Context) {
	var patch models.ListingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	l, err := h.svc.Update(c.Request.Context(), c.Param("slug"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, l)
}
