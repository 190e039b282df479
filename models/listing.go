package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateCard holds a listing's pricing. Every field is optional and defaults to zero.
type RateCard struct {
	BasePrice       float64 `bson:"basePrice" json:"basePrice"`
	CleaningFee     float64 `bson:"cleaningFee" json:"cleaningFee"`
	SecurityDeposit float64 `bson:"securityDeposit" json:"securityDeposit"`
	TaxRate         float64 `bson:"taxRate" json:"taxRate"` // percent, e.g. 10 for 10%
	Currency        string  `bson:"currency" json:"currency"`
}

type Capacity struct {
	MaxGuests int `bson:"maxGuests" json:"maxGuests"`
	Bedrooms  int `bson:"bedrooms" json:"bedrooms"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms"`
}

type Location struct {
	Address string  `bson:"address,omitempty" json:"address,omitempty"`
	City    string  `bson:"city" json:"city"`
	Region  string  `bson:"region,omitempty" json:"region,omitempty"`
	Country string  `bson:"country,omitempty" json:"country,omitempty"`
	Lat     float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// DateRange is a half-open [Start, End) span of calendar days.
type DateRange struct {
	Start  time.Time `bson:"start" json:"start"`
	End    time.Time `bson:"end" json:"end"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Overlaps reports whether the two half-open ranges share at least one instant.
func (r DateRange) Overlaps(start, end time.Time) bool {
	return start.Before(r.End) && r.Start.Before(end)
}

type Availability struct {
	IsActive bool        `bson:"isActive" json:"isActive"`
	Blocked  []DateRange `bson:"blocked,omitempty" json:"blocked,omitempty"`
}

// Image is the normalized shape of a listing picture.
type Image struct {
	URL string `bson:"url" json:"url"`
	Alt string `bson:"alt,omitempty" json:"alt,omitempty"`
}

// ImageSet is the normalized hero + gallery pair.
type ImageSet struct {
	Hero    *Image  `bson:"hero,omitempty" json:"hero"`
	Gallery []Image `bson:"gallery" json:"gallery"`
}

type Amenity struct {
	Label string `bson:"label" json:"label"`
}

// ListingRecord is the stored chalet document. Images and amenities are kept
// in whatever shape they were written with; see services/normalize.
type ListingRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug         string             `bson:"slug" json:"slug"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Pricing      RateCard           `bson:"pricing" json:"pricing"`
	Capacity     Capacity           `bson:"capacity" json:"capacity"`
	Location     Location           `bson:"location" json:"location"`
	Amenities    interface{}        `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images       interface{}        `bson:"images,omitempty" json:"images,omitempty"`
	Availability Availability       `bson:"availability" json:"availability"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Listing is the normalized chalet served to the booking flow and the admin console.
type Listing struct {
	ID           string       `json:"id"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Pricing      RateCard     `json:"pricing"`
	Capacity     Capacity     `json:"capacity"`
	Location     Location     `json:"location"`
	Amenities    []Amenity    `json:"amenities"`
	Images       ImageSet     `json:"images"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ListingQuery filters a listing collection.
type ListingQuery struct {
	Active    *bool  `form:"active" json:"active,omitempty"`
	Location  string `form:"location" json:"location,omitempty"`
	MinGuests int    `form:"guests" json:"guests,omitempty"`
	Search    string `form:"q" json:"q,omitempty"`
	Page      int    `form:"page" json:"page,omitempty"`
	Limit     int    `form:"limit" json:"limit,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// RatePatch carries optional rate card changes.
type RatePatch struct {
	BasePrice       *float64 `json:"basePrice,omitempty"`
	CleaningFee     *float64 `json:"cleaningFee,omitempty"`
	SecurityDeposit *float64 `json:"securityDeposit,omitempty"`
	TaxRate         *float64 `json:"taxRate,omitempty"`
	Currency        *string  `json:"currency,omitempty"`
}

type CapacityPatch struct {
	MaxGuests *int `json:"maxGuests,omitempty"`
	Bedrooms  *int `json:"bedrooms,omitempty"`
	Bathrooms *int `json:"bathrooms,omitempty"`
}

type AvailabilityPatch struct {
	IsActive *bool       `json:"isActive,omitempty"`
	Blocked  []DateRange `json:"blocked,omitempty"`
}

// ListingPatch is a partial listing update. Nil fields are left untouched.
type ListingPatch struct {
	Title        *string            `json:"title,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Pricing      *RatePatch         `json:"pricing,omitempty"`
	Capacity     *CapacityPatch     `json:"capacity,omitempty"`
	Location     *Location          `json:"location,omitempty"`
	Availability *AvailabilityPatch `json:"availability,omitempty"`
	Amenities    interface{}        `json:"amenities,omitempty"`
	Images       interface{}        `json:"images,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Pricing == nil && p.Capacity == nil &&
		p.Location == nil && p.Availability == nil && p.Amenities == nil && p.Images == nil
}
