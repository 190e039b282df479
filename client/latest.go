package client

import (
	"context"
	"errors"
	"sync"

	"chalethaven/models"
)

// ErrSuperseded is returned to a listing request that a newer one replaced.
var ErrSuperseded = errors.New("request superseded by a newer query")

// LatestLister issues listing queries where only the most recent one counts.
// Starting a query cancels the one still in flight.
type LatestLister struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewLatestLister(c *Client) *LatestLister {
	return &LatestLister{client: c}
}

func (l *LatestLister) List(ctx context.Context, q models.ListingQuery) ([]models.Listing, models.Pagination, error) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	mine := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	listings, page, err := l.client.ListListings(ctx, q)

	l.mu.Lock()
	current := l.seq == mine
	if current {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()

	if !current {
		return nil, models.Pagination{}, ErrSuperseded
	}
	return listings, page, err
}
