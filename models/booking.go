package models

import (
	"time"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

// BookingDraft is the transient state of the multi-step booking form.
type BookingDraft struct {
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Adults    int       `json:"adults"`
	Children  int       `json:"children"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Guests is the total requested occupancy.
func (d BookingDraft) Guests() int {
	return d.Adults + d.Children
}

// PriceBreakdown is derived from a listing's rate card and a date range. It is never stored.
type PriceBreakdown struct {
	Nights      int     `json:"nights"`
	BaseAmount  float64 `json:"baseAmount"`
	CleaningFee float64 `json:"cleaningFee"`
	Taxes       float64 `json:"taxes"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency,omitempty"`
}

// BookingPayload is the booking as carried to the payment session.
type BookingPayload struct {
	ListingSlug  string `json:"listingSlug" binding:"required"`
	ListingTitle string `json:"listingTitle,omitempty"`
	CheckIn      string `json:"checkIn" binding:"required"`
	CheckOut     string `json:"checkOut" binding:"required"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// PayloadFromDraft renders a draft for the wire.
func PayloadFromDraft(l Listing, d BookingDraft) BookingPayload {
	return BookingPayload{
		ListingSlug:  l.Slug,
		ListingTitle: l.Title,
		CheckIn:      d.CheckIn.Format(DateLayout),
		CheckOut:     d.CheckOut.Format(DateLayout),
		Adults:       d.Adults,
		Children:     d.Children,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Phone:        d.Phone,
		Notes:        d.Notes,
	}
}

// Draft parses the wire dates back into a draft.
func (p BookingPayload) Draft() (BookingDraft, error) {
	d := BookingDraft{
		Adults:    p.Adults,
		Children:  p.Children,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
	}
	var err error
	if p.CheckIn != "" {
		if d.CheckIn, err = time.Parse(DateLayout, p.CheckIn); err != nil {
			return d, err
		}
	}
	if p.CheckOut != "" {
		if d.CheckOut, err = time.Parse(DateLayout, p.CheckOut); err != nil {
			return d, err
		}
	}
	return d, nil
}

// QuoteRequest asks the server to validate step one and price a stay.
type QuoteRequest struct {
	Slug     string `json:"slug" binding:"required"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

// CheckoutRequest is the body of POST /api/stripe/create-checkout-session.
type CheckoutRequest struct {
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	CustomerEmail string         `json:"customerEmail"`
	Booking       BookingPayload `json:"booking"`
}

// CheckoutSession is the created payment session the browser is redirected to.
type CheckoutSession struct {
	ID        string `json:"sessionId"`
	URL       string `json:"sessionUrl"`
	Reference string `json:"reference,omitempty"`
}
