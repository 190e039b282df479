package payment

import (
	"context"
	"fmt"

	"chalethaven/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeCreator opens Stripe Checkout sessions. Network retries are disabled.
type StripeCreator struct {
	api *client.API
}

func NewStripeCreator(secretKey string) (*StripeCreator, error) {
	if secretKey == "" {
		return nil, ErrNotConfigured
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
	})
	sc := &client.API{}
	sc.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &StripeCreator{api: sc}, nil
}

func (c *StripeCreator) CreateSession(ctx context.Context, in SessionInput) (*models.CheckoutSession, error) {
	params := checkoutParams(in)
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return &models.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func checkoutParams(in SessionInput) *stripe.CheckoutSessionParams {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(in.ProductName),
	}
	if in.Description != "" {
		product.Description = stripe.String(in.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(in.Currency),
					UnitAmount:  stripe.Int64(in.AmountCents),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	for k, v := range in.Metadata {
		if v != "" {
			params.AddMetadata(k, v)
		}
	}
	return params
}
