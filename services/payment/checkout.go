package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"chalethaven/models"
	"chalethaven/services/booking"
	"chalethaven/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured    = errors.New("payments are not configured")
	ErrAmountMismatch   = errors.New("amount does not match the current price")
	ErrCurrencyMismatch = errors.New("currency does not match the chalet's currency")
	ErrInvalidBooking   = errors.New("invalid booking payload")
)

// amountTolerance absorbs client-side float rounding.
const amountTolerance = 0.01

// ListingSource resolves the chalet a booking is for.
type ListingSource interface {
	Get(ctx context.Context, slug string) (*models.Listing, error)
}

// SessionInput is everything the payment provider needs for one hosted checkout page.
type SessionInput struct {
	Reference     string
	AmountCents   int64
	Currency      string
	ProductName   string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type SessionCreator interface {
	CreateSession(ctx context.Context, in SessionInput) (*models.CheckoutSession, error)
}

// CheckoutService re-prices a booking from the stored listing before any
// payment session is created.
type CheckoutService struct {
	listings        ListingSource
	creator         SessionCreator
	siteURL         string
	defaultCurrency string
	logger          *zap.Logger
	now             func() time.Time
}

// NewCheckoutService accepts a nil creator; Initiate then reports ErrNotConfigured.
func NewCheckoutService(listings ListingSource, creator SessionCreator, siteURL, defaultCurrency string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		listings:        listings,
		creator:         creator,
		siteURL:         strings.TrimRight(siteURL, "/"),
		defaultCurrency: strings.ToLower(defaultCurrency),
		logger:          logger,
		now:             time.Now,
	}
}

func (s *CheckoutService) Configured() bool {
	return s.creator != nil
}

// Initiate validates and prices req, then opens a payment session.
func (s *CheckoutService) Initiate(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	if s.creator == nil {
		return nil, ErrNotConfigured
	}

	draft, err := req.Booking.Draft()
	if err != nil {
		return nil, fmt.Errorf("%w: dates must use YYYY-MM-DD", ErrInvalidBooking)
	}
	if draft.Email == "" {
		draft.Email = req.CustomerEmail
	}
	listing, err := s.listings.Get(ctx, req.Booking.ListingSlug)
	if err != nil {
		return nil, err
	}
	if err := booking.ValidateDatesAndGuests(draft, *listing, s.now()); err != nil {
		return nil, err
	}
	if err := booking.ValidateGuestInfo(draft); err != nil {
		return nil, err
	}

	quote := pricing.Calculate(draft.CheckIn, draft.CheckOut, listing.Pricing)
	if math.Abs(quote.Total-req.Amount) > amountTolerance {
		s.logger.Warn("checkout amount mismatch",
			zap.String("slug", listing.Slug),
			zap.Float64("client", req.Amount),
			zap.Float64("server", quote.Total))
		return nil, ErrAmountMismatch
	}
	currency := strings.ToLower(quote.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}
	if req.Currency != "" && !strings.EqualFold(req.Currency, currency) {
		return nil, ErrCurrencyMismatch
	}

	ref := uuid.New().String()
	in := SessionInput{
		Reference:     ref,
		AmountCents:   pricing.Cents(quote.Total),
		Currency:      currency,
		ProductName:   listing.Title,
		Description:   fmt.Sprintf("%d night(s), %s to %s", quote.Nights, req.Booking.CheckIn, req.Booking.CheckOut),
		CustomerEmail: draft.Email,
		SuccessURL:    s.siteURL + "/booking/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.siteURL + "/chalets/" + listing.Slug + "?checkout=cancelled",
		Metadata: map[string]string{
			"reference": ref,
			"listing":   listing.Slug,
			"checkIn":   req.Booking.CheckIn,
			"checkOut":  req.Booking.CheckOut,
			"adults":    strconv.Itoa(draft.Adults),
			"children":  strconv.Itoa(draft.Children),
			"guestName": strings.TrimSpace(draft.FirstName + " " + draft.LastName),
			"phone":     draft.Phone,
		},
	}

	sess, err := s.creator.CreateSession(ctx, in)
	if err != nil {
		s.logger.Error("failed to create checkout session", zap.String("reference", ref), zap.Error(err))
		return nil, err
	}
	sess.Reference = ref
	s.logger.Info("checkout session created",
		zap.String("reference", ref),
		zap.String("sessionID", sess.ID),
		zap.Int64("amount", in.AmountCents))
	return sess, nil
}
