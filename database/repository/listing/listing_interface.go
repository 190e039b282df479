package listingRepo

import (
	"context"
	"errors"

	"chalethaven/models"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrSlugTaken       = errors.New("listing slug already exists")
)

// ListingFilter is a resolved listing query; paging values are already clamped.
type ListingFilter struct {
	Active    *bool
	Location  string
	MinGuests int
	Search    string
	Skip      int64
	Limit     int64
}

type ListingRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.ListingRecord, error)
	GetByID(ctx context.Context, id string) (*models.ListingRecord, error)
	List(ctx context.Context, filter ListingFilter) ([]models.ListingRecord, int64, error)
	Create(ctx context.Context, rec *models.ListingRecord) error
	Update(ctx context.Context, slug string, patch models.ListingPatch) (*models.ListingRecord, error)
}
