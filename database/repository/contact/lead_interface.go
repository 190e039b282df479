package leadRepo

import (
	"context"
	"errors"

	"chalethaven/models"
)

var ErrLeadNotFound = errors.New("lead not found")

// LeadRepository stores contact form submissions.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	MarkNotified(ctx context.Context, id string) error
}
