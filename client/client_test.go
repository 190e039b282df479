package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chalethaven/models"
	"chalethaven/services/booking"
)

type recordingSession struct {
	token        string
	unauthorized int
}

func (s *recordingSession) Token(context.Context) string { return s.token }

func (s *recordingSession) HandleUnauthorized(context.Context) { s.unauthorized++ }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestInitiate(t *testing.T) {
	var got models.CheckoutRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stripe/create-checkout-session" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.Amount == 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sessionId": "cs_1"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sessionId": "cs_1", "sessionUrl": "https://checkout.stripe.com/c/pay/cs_1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	session, err := c.Initiate(context.Background(), models.CheckoutRequest{Amount: 715, Currency: "eur"})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if session.URL != "https://checkout.stripe.com/c/pay/cs_1" || session.ID != "cs_1" || got.Currency != "eur" {
		t.Fatalf("session = %+v, sent %+v", session, got)
	}

	if _, err := c.Initiate(context.Background(), models.CheckoutRequest{}); err == nil {
		t.Fatal("a session without a redirect URL must be an error")
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chalets/missing":
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Chalet not found"})
		case "/api/chalets/soft-fail":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "nope"})
		default:
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"slug": "chalet-edelweiss"}})
		}
	}))
	defer srv.Close()
	c := New(srv.URL)

	l, err := c.GetListing(context.Background(), "chalet-edelweiss")
	if err != nil || l.Slug != "chalet-edelweiss" {
		t.Fatalf("GetListing = %+v, %v", l, err)
	}

	_, err = c.GetListing(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Chalet not found" {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.GetListing(context.Background(), "soft-fail"); !errors.As(err, &apiErr) {
		t.Fatalf("success=false body: err = %v", err)
	}
}

func TestUnauthorizedNotifiesSession(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid or expired token"})
	}))
	defer srv.Close()

	sess := &recordingSession{token: "stale"}
	c := New(srv.URL)
	c.SetSession(sess)

	title := "x"
	_, err := c.UpdateListing(context.Background(), "chalet-edelweiss", models.ListingPatch{Title: &title})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if authHeader != "Bearer stale" || sess.unauthorized != 1 {
		t.Fatalf("auth header %q, unauthorized calls %d", authHeader, sess.unauthorized)
	}

	// A failed sign-in is a 401 too, but it must not clear anything.
	if _, err := c.Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"}); !IsUnauthorized(err) {
		t.Fatalf("login err = %v", err)
	}
	if sess.unauthorized != 1 {
		t.Fatalf("login triggered HandleUnauthorized")
	}
}

func TestLatestListerSupersedes(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "slow" {
			close(slowStarted)
			select {
			case <-r.Context().Done():
			case <-release:
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []map[string]interface{}{{"slug": "stale"}}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": []map[string]interface{}{{"slug": "fresh"}}})
	}))
	defer srv.Close()
	defer close(release)

	lister := NewLatestLister(New(srv.URL))

	type result struct {
		listings []models.Listing
		err      error
	}
	first := make(chan result, 1)
	go func() {
		ls, _, err := lister.List(context.Background(), models.ListingQuery{Search: "slow"})
		first <- result{ls, err}
	}()
	<-slowStarted

	fresh, _, err := lister.List(context.Background(), models.ListingQuery{Search: "fast"})
	if err != nil || len(fresh) != 1 || fresh[0].Slug != "fresh" {
		t.Fatalf("second List = %v, %v", fresh, err)
	}

	select {
	case r := <-first:
		if !errors.Is(r.err, ErrSuperseded) || r.listings != nil {
			t.Fatalf("first List = %v, %v; want ErrSuperseded", r.listings, r.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("superseded request never returned")
	}
}

func TestClientDrivesBookingFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sessionId": "cs_9", "sessionUrl": "https://pay.example.com/cs_9"})
	}))
	defer srv.Close()

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	l := models.Listing{
		Slug:         "chalet-edelweiss",
		Pricing:      models.RateCard{BasePrice: 100},
		Availability: models.Availability{IsActive: true},
	}
	f := booking.NewFlow(l, New(srv.URL), booking.WithClock(func() time.Time { return now }))
	_ = f.SetDates(now.AddDate(0, 0, 7), now.AddDate(0, 0, 9))
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	_ = f.SetGuestInfo("Ada", "Lovelace", "ada@example.com", "")
	if err := f.Next(); err != nil {
		t.Fatal(err)
	}
	url, err := f.Submit(context.Background())
	if err != nil || url != "https://pay.example.com/cs_9" {
		t.Fatalf("Submit = %q, %v", url, err)
	}
}
