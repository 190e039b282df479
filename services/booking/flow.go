package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"chalethaven/models"
	"chalethaven/services/pricing"
)

// Step is a page of the booking form.
type Step int

const (
	StepDatesGuests Step = iota + 1
	StepGuestInfo
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepDatesGuests:
		return "dates-guests"
	case StepGuestInfo:
		return "guest-info"
	case StepPayment:
		return "payment"
	}
	return "unknown"
}

// SubmissionState tracks the step-three payment request.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionInFlight
	SubmissionSucceeded
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionInFlight:
		return "in-flight"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	}
	return "unknown"
}

// CheckoutInitiator hands a priced booking to the payment provider and
// returns the session the browser should be sent to.
type CheckoutInitiator interface {
	Initiate(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}

// Flow is the three-step booking form for one listing. Dropping a Flow
// discards the draft; nothing is persisted.
type Flow struct {
	mu        sync.Mutex
	listing   models.Listing
	initiator CheckoutInitiator
	now       func() time.Time

	step     Step
	draft    models.BookingDraft
	state    SubmissionState
	lastErr  string
	redirect string
}

type Option func(*Flow)

// WithClock replaces time.Now for the "check-in not in the past" guard.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithDraft seeds the form, e.g. with dates picked on the listing page.
func WithDraft(d models.BookingDraft) Option {
	return func(f *Flow) { f.draft = d }
}

func NewFlow(listing models.Listing, initiator CheckoutInitiator, opts ...Option) *Flow {
	f := &Flow{
		listing:   listing,
		initiator: initiator,
		now:       time.Now,
		step:      StepDatesGuests,
		draft:     models.BookingDraft{Adults: 1},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Draft() models.BookingDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submission returns the payment request state and, when failed, its message.
func (f *Flow) Submission() (SubmissionState, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.lastErr
}

// Update edits the draft. Edits are refused while a payment request is in
// flight or after it succeeded.
func (f *Flow) Update(edit func(d *models.BookingDraft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	edit(&f.draft)
	return nil
}

func (f *Flow) SetDates(checkIn, checkOut time.Time) error {
	return f.Update(func(d *models.BookingDraft) {
		d.CheckIn, d.CheckOut = checkIn, checkOut
	})
}

func (f *Flow) SetGuests(adults, children int) error {
	return f.Update(func(d *models.BookingDraft) {
		d.Adults, d.Children = adults, children
	})
}

func (f *Flow) SetGuestInfo(firstName, lastName, email, phone string) error {
	return f.Update(func(d *models.BookingDraft) {
		d.FirstName = strings.TrimSpace(firstName)
		d.LastName = strings.TrimSpace(lastName)
		d.Email = strings.TrimSpace(email)
		d.Phone = strings.TrimSpace(phone)
	})
}

// Quote recomputes the price breakdown from the current draft.
func (f *Flow) Quote() models.PriceBreakdown {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pricing.Calculate(f.draft.CheckIn, f.draft.CheckOut, f.listing.Pricing)
}

// Next advances one step if the current step's guard passes. On a guard
// failure the flow does not move and a *ValidationError is returned.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepDatesGuests:
		if err := ValidateDatesAndGuests(f.draft, f.listing, f.now()); err != nil {
			return err
		}
		f.step = StepGuestInfo
	case StepGuestInfo:
		if err := ValidateGuestInfo(f.draft); err != nil {
			return err
		}
		f.step = StepPayment
	case StepPayment:
		// Leaving the last step happens through Submit.
	}
	return nil
}

// Back returns to the previous step. It is a no-op on the first step.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	if f.step > StepDatesGuests {
		f.step--
	}
	return nil
}

// Submit starts the payment session. Only one request may be in flight; a
// failed attempt leaves the flow on the payment step so it can be retried.
func (f *Flow) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.step != StepPayment {
		f.mu.Unlock()
		return "", ErrNotOnPaymentStep
	}
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if f.initiator == nil {
		f.mu.Unlock()
		return "", ErrNoInitiator
	}
	// Time moves on between steps; re-check both guards before charging.
	if err := ValidateDatesAndGuests(f.draft, f.listing, f.now()); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if err := ValidateGuestInfo(f.draft); err != nil {
		f.mu.Unlock()
		return "", err
	}

	quote := pricing.Calculate(f.draft.CheckIn, f.draft.CheckOut, f.listing.Pricing)
	req := models.CheckoutRequest{
		Amount:        quote.Total,
		Currency:      quote.Currency,
		CustomerEmail: f.draft.Email,
		Booking:       models.PayloadFromDraft(f.listing, f.draft),
	}
	f.state = SubmissionInFlight
	f.lastErr = ""
	f.mu.Unlock()

	session, err := f.initiator.Initiate(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil && (session == nil || session.URL == "") {
		err = ErrMissingRedirect
	}
	if err != nil {
		f.state = SubmissionFailed
		f.lastErr = err.Error()
		return "", err
	}
	f.state = SubmissionSucceeded
	f.redirect = session.URL
	return session.URL, nil
}

// RedirectURL is the payment page once Submit succeeded.
func (f *Flow) RedirectURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirect
}

func (f *Flow) editableLocked() error {
	switch f.state {
	case SubmissionInFlight:
		return ErrSubmissionInProgress
	case SubmissionSucceeded:
		return ErrAlreadySubmitted
	}
	return nil
}
