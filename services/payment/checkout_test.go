package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"chalethaven/models"
	"chalethaven/services/booking"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type staticListings map[string]models.Listing

func (s staticListings) Get(_ context.Context, slug string) (*models.Listing, error) {
	l, ok := s[slug]
	if !ok {
		return nil, errors.New("chalet not found")
	}
	return &l, nil
}

type fakeCreator struct {
	calls int
	in    SessionInput
	err   error
}

func (f *fakeCreator) CreateSession(_ context.Context, in SessionInput) (*models.CheckoutSession, error) {
	f.calls++
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

var listings = staticListings{
	"chalet-edelweiss": {
		Slug:         "chalet-edelweiss",
		Title:        "Chalet Edelweiss",
		Pricing:      models.RateCard{BasePrice: 200, CleaningFee: 50, TaxRate: 10, Currency: "EUR"},
		Capacity:     models.Capacity{MaxGuests: 6},
		Availability: models.Availability{IsActive: true},
	},
}

func request(amount float64) models.CheckoutRequest {
	return models.CheckoutRequest{
		Amount:        amount,
		Currency:      "eur",
		CustomerEmail: "ada@example.com",
		Booking: models.BookingPayload{
			ListingSlug: "chalet-edelweiss",
			CheckIn:     "2026-12-20",
			CheckOut:    "2026-12-23",
			Adults:      2,
			FirstName:   "Ada",
			LastName:    "Lovelace",
		},
	}
}

func newService(c SessionCreator) *CheckoutService {
	svc := NewCheckoutService(listings, c, "https://chalethaven.test/", "chf", zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestInitiate(t *testing.T) {
	creator := &fakeCreator{}
	sess, err := newService(creator).Initiate(context.Background(), request(715))
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if sess.URL == "" || sess.Reference == "" {
		t.Fatalf("session = %+v", sess)
	}
	in := creator.in
	if in.AmountCents != 71500 || in.Currency != "eur" || in.CustomerEmail != "ada@example.com" {
		t.Fatalf("input = %+v", in)
	}
	if in.Metadata["listing"] != "chalet-edelweiss" || in.Metadata["reference"] != sess.Reference {
		t.Fatalf("metadata = %v", in.Metadata)
	}
	if in.CancelURL != "https://chalethaven.test/chalets/chalet-edelweiss?checkout=cancelled" {
		t.Fatalf("cancel url = %s", in.CancelURL)
	}
}

func TestInitiateRejects(t *testing.T) {
	tooMany := request(715)
	tooMany.Booking.Adults = 7
	badDate := request(715)
	badDate.Booking.CheckIn = "20/12/2026"
	wrongCurrency := request(715)
	wrongCurrency.Currency = "usd"

	tests := []struct {
		name  string
		req   models.CheckoutRequest
		check func(error) bool
	}{
		{"tampered amount", request(1), func(err error) bool { return errors.Is(err, ErrAmountMismatch) }},
		{"over capacity", tooMany, booking.IsValidation},
		{"bad date", badDate, func(err error) bool { return errors.Is(err, ErrInvalidBooking) }},
		{"currency", wrongCurrency, func(err error) bool { return errors.Is(err, ErrCurrencyMismatch) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{}
			_, err := newService(creator).Initiate(context.Background(), tt.req)
			if !tt.check(err) {
				t.Fatalf("err = %v", err)
			}
			if creator.calls != 0 {
				t.Fatal("payment provider must not be called")
			}
		})
	}

	// Within one cent is accepted.
	if _, err := newService(&fakeCreator{}).Initiate(context.Background(), request(714.995)); err != nil {
		t.Fatalf("rounding tolerance: %v", err)
	}
}

func TestInitiateNotConfigured(t *testing.T) {
	if _, err := newService(nil).Initiate(context.Background(), request(715)); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewStripeCreator(""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("NewStripeCreator = %v", err)
	}
}

func TestCheckoutParams(t *testing.T) {
	p := checkoutParams(SessionInput{
		Reference:   "ref-1",
		AmountCents: 71500,
		Currency:    "eur",
		ProductName: "Chalet Edelweiss",
		SuccessURL:  "https://x/s",
		CancelURL:   "https://x/c",
		Metadata:    map[string]string{"listing": "chalet-edelweiss", "phone": ""},
	})
	if *p.Mode != string(stripe.CheckoutSessionModePayment) || len(p.LineItems) != 1 {
		t.Fatalf("params = %+v", p)
	}
	li := p.LineItems[0]
	if *li.PriceData.UnitAmount != 71500 || *li.Quantity != 1 || *li.PriceData.ProductData.Name != "Chalet Edelweiss" {
		t.Fatalf("line item = %+v", li)
	}
	if p.Metadata["listing"] != "chalet-edelweiss" {
		t.Fatalf("metadata = %v", p.Metadata)
	}
	if _, ok := p.Metadata["phone"]; ok {
		t.Fatal("empty metadata values must be skipped")
	}
	if p.CustomerEmail != nil {
		t.Fatal("customer email should be unset when empty")
	}
}

func TestFlowChecksOutAcrossDSTChange(t *testing.T) {
	summer := time.FixedZone("CEST", 2*60*60)
	winter := time.FixedZone("CET", 1*60*60)

	creator := &fakeCreator{}
	svc := newService(creator)
	flow := booking.NewFlow(listings["chalet-edelweiss"], svc, booking.WithClock(svc.now))
	if err := flow.SetDates(time.Date(2026, 10, 24, 0, 0, 0, 0, summer), time.Date(2026, 10, 26, 0, 0, 0, 0, winter)); err != nil {
		t.Fatal(err)
	}
	if err := flow.SetGuests(2, 0); err != nil {
		t.Fatal(err)
	}
	if err := flow.Next(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := flow.SetGuestInfo("Ada", "Lovelace", "ada@example.com", ""); err != nil {
		t.Fatal(err)
	}
	if err := flow.Next(); err != nil {
		t.Fatalf("step 2: %v", err)
	}

	if q := flow.Quote(); q.Nights != 2 || q.Total != 495 {
		t.Fatalf("quote = %+v, want 2 nights totalling 495", q)
	}
	if _, err := flow.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if creator.in.AmountCents != 49500 {
		t.Fatalf("charged %d cents, want 49500", creator.in.AmountCents)
	}
}
