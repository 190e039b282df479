package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chalethaven/models"
)

var fixedNow = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func day(offset int) time.Time {
	y, m, d := fixedNow.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
}

func testListing() models.Listing {
	return models.Listing{
		Slug:         "chalet-edelweiss",
		Title:        "Chalet Edelweiss",
		Pricing:      models.RateCard{BasePrice: 200, CleaningFee: 50, TaxRate: 10, Currency: "eur"},
		Capacity:     models.Capacity{MaxGuests: 6},
		Availability: models.Availability{IsActive: true},
	}
}

type fakeInitiator struct {
	mu      sync.Mutex
	calls   int
	lastReq models.CheckoutRequest
	err     error
	url     string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeInitiator) Initiate(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	block, started := f.block, f.started
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.CheckoutSession{ID: "cs_test", URL: f.url}, nil
}

func readyFlow(t *testing.T, init CheckoutInitiator) *Flow {
	t.Helper()
	f := NewFlow(testListing(), init, WithClock(clock))
	if err := f.SetDates(day(10), day(13)); err != nil {
		t.Fatal(err)
	}
	if err := f.SetGuests(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Next(); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := f.SetGuestInfo("Ada", "Lovelace", "ada@example.com", ""); err != nil {
		t.Fatal(err)
	}
	if err := f.Next(); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if f.Step() != StepPayment {
		t.Fatalf("step = %v, want payment", f.Step())
	}
	return f
}

func TestFlowStepOneGuards(t *testing.T) {
	tests := []struct {
		name         string
		in, out      time.Time
		adults, kids int
		wantErr      bool
		wantField    string
	}{
		{name: "missing dates", adults: 2, wantErr: true, wantField: "dates"},
		{name: "same day", in: day(5), out: day(5), adults: 2, wantErr: true, wantField: "checkOut"},
		{name: "reversed", in: day(6), out: day(5), adults: 2, wantErr: true, wantField: "checkOut"},
		{name: "past check-in", in: day(-1), out: day(2), adults: 2, wantErr: true, wantField: "checkIn"},
		{name: "today is fine", in: day(0), out: day(2), adults: 2},
		{name: "seven guests over six", in: day(3), out: day(5), adults: 5, kids: 2, wantErr: true, wantField: "guests"},
		{name: "six guests fit", in: day(3), out: day(5), adults: 4, kids: 2},
		{name: "no adults", in: day(3), out: day(5), adults: 0, kids: 2, wantErr: true, wantField: "adults"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlow(testListing(), nil, WithClock(clock))
			_ = f.SetDates(tt.in, tt.out)
			_ = f.SetGuests(tt.adults, tt.kids)

			err := f.Next()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Next() = %v, want nil", err)
				}
				if f.Step() != StepGuestInfo {
					t.Fatalf("step = %v, want guest-info", f.Step())
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Next() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Fatalf("field = %q, want %q (%s)", ve.Field, tt.wantField, ve.Message)
			}
			if ve.Message == "" {
				t.Fatal("expected a human readable message")
			}
			if f.Step() != StepDatesGuests {
				t.Fatalf("step advanced to %v on a failed guard", f.Step())
			}
			if q := f.Quote(); q.Nights > 0 && !tt.out.After(tt.in) {
				t.Fatalf("quote shows %d nights for a non-forward range", q.Nights)
			}
		})
	}
}

func TestFlowRejectsInactiveAndBlocked(t *testing.T) {
	l := testListing()
	l.Availability.IsActive = false
	f := NewFlow(l, nil, WithClock(clock))
	_ = f.SetDates(day(3), day(5))
	if err := f.Next(); !IsValidation(err) {
		t.Fatalf("inactive listing: Next() = %v", err)
	}

	l = testListing()
	l.Availability.Blocked = []models.DateRange{{Start: day(4), End: day(8)}}
	f = NewFlow(l, nil, WithClock(clock))
	_ = f.SetDates(day(2), day(5))
	if err := f.Next(); !IsValidation(err) {
		t.Fatalf("blocked range: Next() = %v", err)
	}
	_ = f.SetDates(day(8), day(10))
	if err := f.Next(); err != nil {
		t.Fatalf("adjacent to blocked range: Next() = %v", err)
	}
}

func TestFlowStepTwoGuards(t *testing.T) {
	tests := []struct {
		name               string
		first, last, email string
		wantErr            bool
	}{
		{name: "complete", first: "Ada", last: "Lovelace", email: "ada@example.com"},
		{name: "missing first", last: "Lovelace", email: "ada@example.com", wantErr: true},
		{name: "blank last", first: "Ada", last: "   ", email: "ada@example.com", wantErr: true},
		{name: "missing email", first: "Ada", last: "Lovelace", wantErr: true},
		{name: "no tld", first: "Ada", last: "Lovelace", email: "ada@example", wantErr: true},
		{name: "no at", first: "Ada", last: "Lovelace", email: "ada.example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlow(testListing(), nil, WithClock(clock))
			_ = f.SetDates(day(1), day(3))
			if err := f.Next(); err != nil {
				t.Fatal(err)
			}
			_ = f.SetGuestInfo(tt.first, tt.last, tt.email, "")
			err := f.Next()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Next() = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && f.Step() != StepGuestInfo {
				t.Fatalf("step = %v, want guest-info", f.Step())
			}
		})
	}
}

func TestFlowBack(t *testing.T) {
	f := NewFlow(testListing(), nil, WithClock(clock))
	if err := f.Back(); err != nil || f.Step() != StepDatesGuests {
		t.Fatalf("Back on first step: step=%v err=%v", f.Step(), err)
	}
	_ = f.SetDates(day(1), day(3))
	_ = f.Next()
	if err := f.Back(); err != nil || f.Step() != StepDatesGuests {
		t.Fatalf("Back from guest info: step=%v err=%v", f.Step(), err)
	}
	if d := f.Draft(); !d.CheckIn.Equal(day(1)) {
		t.Fatal("draft lost on back")
	}
}

func TestFlowSubmitSuccess(t *testing.T) {
	init := &fakeInitiator{url: "https://checkout.stripe.com/c/pay/cs_test"}
	f := readyFlow(t, init)

	url, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if url != init.url || f.RedirectURL() != init.url {
		t.Fatalf("redirect = %q", url)
	}
	if state, _ := f.Submission(); state != SubmissionSucceeded {
		t.Fatalf("state = %v", state)
	}
	if init.lastReq.Amount != 715 || init.lastReq.Currency != "eur" {
		t.Fatalf("request amount/currency = %v %q", init.lastReq.Amount, init.lastReq.Currency)
	}
	if init.lastReq.Booking.CheckIn != day(10).Format(models.DateLayout) || init.lastReq.CustomerEmail != "ada@example.com" {
		t.Fatalf("unexpected booking payload %+v", init.lastReq)
	}

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("second Submit() = %v, want ErrAlreadySubmitted", err)
	}
	if init.calls != 1 {
		t.Fatalf("initiator called %d times", init.calls)
	}
}

func TestFlowSubmitFailureAllowsRetry(t *testing.T) {
	init := &fakeInitiator{err: errors.New("payment service unavailable")}
	f := readyFlow(t, init)

	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	state, msg := f.Submission()
	if state != SubmissionFailed || msg != "payment service unavailable" {
		t.Fatalf("state = %v msg = %q", state, msg)
	}
	if f.Step() != StepPayment {
		t.Fatalf("step = %v after failure", f.Step())
	}

	init.err = nil
	init.url = "https://pay.example.com/session"
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit() = %v", err)
	}
	if init.calls != 2 {
		t.Fatalf("initiator called %d times", init.calls)
	}
}

func TestFlowSubmitSingleFlight(t *testing.T) {
	init := &fakeInitiator{url: "https://pay.example.com", block: make(chan struct{}), started: make(chan struct{})}
	f := readyFlow(t, init)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-init.started

	if state, _ := f.Submission(); state != SubmissionInFlight {
		t.Fatalf("state = %v, want in-flight", state)
	}
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSubmissionInProgress) {
		t.Fatalf("concurrent Submit() = %v", err)
	}
	if err := f.SetGuests(3, 0); !errors.Is(err, ErrSubmissionInProgress) {
		t.Fatalf("edit during submit = %v", err)
	}
	if err := f.Back(); !errors.Is(err, ErrSubmissionInProgress) {
		t.Fatalf("back during submit = %v", err)
	}

	close(init.block)
	if err := <-done; err != nil {
		t.Fatalf("Submit() = %v", err)
	}
	if init.calls != 1 {
		t.Fatalf("initiator called %d times", init.calls)
	}
}

func TestFlowSubmitRequiresPaymentStep(t *testing.T) {
	f := NewFlow(testListing(), &fakeInitiator{url: "x"}, WithClock(clock))
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrNotOnPaymentStep) {
		t.Fatalf("Submit() = %v", err)
	}
}

func TestFlowSubmitWithoutRedirectFails(t *testing.T) {
	f := readyFlow(t, &fakeInitiator{})
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrMissingRedirect) {
		t.Fatalf("Submit() = %v", err)
	}
	if state, _ := f.Submission(); state != SubmissionFailed {
		t.Fatalf("state = %v", state)
	}
}
