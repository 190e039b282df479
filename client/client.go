// Package client is the Go consumer of the chalethaven HTTP API. It carries the
// console session token and forces a sign-out on any 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chalethaven/models"

	"go.uber.org/zap"
)

// SessionHook supplies the bearer token and is told when the server rejects it.
type SessionHook interface {
	Token(ctx context.Context) string
	HandleUnauthorized(ctx context.Context)
}

// APIError is a non-2xx answer or a body with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	session SessionHook
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSession attaches the session used by authenticated calls.
func (c *Client) SetSession(h SessionHook) {
	c.session = h
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request. An authenticated call that gets a 401 informs the
// session before returning.
func (c *Client) do(ctx context.Context, method, path string, body, out any, token string, authed bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && token == "" && c.session != nil {
		token = c.session.Token(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if authed && c.session != nil {
			c.logger.Info("session rejected by server", zap.String("path", path))
			c.session.HandleUnauthorized(ctx)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Login posts credentials. It never touches the session; that is the store's job.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, "", false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify checks token with the server.
func (c *Client) Verify(ctx context.Context, token string) (*models.PublicUser, error) {
	var resp models.VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &resp, token, true); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, "", true)
}

type listingResponse struct {
	Data models.Listing `json:"data"`
}

type listingsResponse struct {
	Data       []models.Listing  `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// GetListing fetches a chalet by slug or id.
func (c *Client) GetListing(ctx context.Context, slug string) (*models.Listing, error) {
	var resp listingResponse
	if err := c.do(ctx, http.MethodGet, "/api/chalets/"+url.PathEscape(slug), nil, &resp, "", false); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) ListListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, models.Pagination, error) {
	var resp listingsResponse
	path := "/api/chalets"
	if qs := encodeQuery(q); qs != "" {
		path += "?" + qs
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, "", c.session != nil); err != nil {
		return nil, models.Pagination{}, err
	}
	return resp.Data, resp.Pagination, nil
}

func encodeQuery(q models.ListingQuery) string {
	v := url.Values{}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.MinGuests > 0 {
		v.Set("guests", strconv.Itoa(q.MinGuests))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v.Encode()
}

// UpdateListing sends a partial update as the signed-in admin.
func (c *Client) UpdateListing(ctx context.Context, slug string, patch models.ListingPatch) (*models.Listing, error) {
	var resp listingResponse
	if err := c.do(ctx, http.MethodPatch, "/api/chalets/"+url.PathEscape(slug), patch, &resp, "", true); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Quote asks the server to validate dates and guests and price the stay.
func (c *Client) Quote(ctx context.Context, req models.QuoteRequest) (*models.PriceBreakdown, error) {
	var resp struct {
		Data models.PriceBreakdown `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/bookings/quote", req, &resp, "", false); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) SubmitContact(ctx context.Context, req models.ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/api/contact", req, nil, "", false)
}

// SignUpload requests a signature for a direct upload into folder.
func (c *Client) SignUpload(ctx context.Context, folder string) (*models.UploadSignature, error) {
	var resp struct {
		Data models.UploadSignature `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/upload/sign", models.UploadSignRequest{Folder: folder}, &resp, "", true); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Initiate creates the payment session for a booking; the booking flow's
// final step calls it directly.
func (c *Client) Initiate(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	var resp models.CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/api/stripe/create-checkout-session", req, &resp, "", false); err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "payment session has no redirect URL"}
	}
	return &resp, nil
}
