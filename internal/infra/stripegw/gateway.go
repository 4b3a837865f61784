package stripegw

import (
	"context"
	"log/slog"

	"academy-api/internal/domain/billing"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/config"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Gateway wraps the payment platform client. Signature verification and every
// API call the webhook classifier and the subscription handler need go
// through here.
type Gateway struct {
	api           *client.API
	webhookSecret string
	logger        *slog.Logger
}

func New(cfg config.BillingConfig, logger *slog.Logger) *Gateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Gateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
}

// ConstructEvent verifies the webhook signature against the shared secret and
// parses the payload. A verification failure must reject the delivery before
// anything else runs.
func (g *Gateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}

// FindOneTimePrice resolves an active one-time price by its lookup key.
// Lookup key is the canonical price identity here; metadata tags are not
// consulted.
func (g *Gateway) FindOneTimePrice(ctx context.Context, lookupKey string) (string, error) {
	params := &stripe.PriceListParams{
		LookupKeys: stripe.StringSlice([]string{lookupKey}),
		Active:     stripe.Bool(true),
	}
	params.Context = ctx

	iter := g.api.Prices.List(params)
	for iter.Next() {
		return iter.Price().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", g.upstreamErr("failed to list prices", err)
	}
	return "", infra.WrapRepoErr("no price with lookup key "+lookupKey, nil, infra.KindNotFound)
}

func (g *Gateway) CreateInvoiceItem(ctx context.Context, customerID, subscriptionID, priceID, couponID string) error {
	params := &stripe.InvoiceItemParams{
		Customer:     stripe.String(customerID),
		Price:        stripe.String(priceID),
		Subscription: stripe.String(subscriptionID),
	}
	params.Context = ctx
	if couponID != "" {
		params.Discounts = []*stripe.InvoiceItemDiscountParams{
			{Coupon: stripe.String(couponID)},
		}
	}

	if _, err := g.api.InvoiceItems.New(params); err != nil {
		return g.upstreamErr("failed to create invoice item", err)
	}
	return nil
}

func (g *Gateway) CreateInvoice(ctx context.Context, customerID, subscriptionID string) error {
	params := &stripe.InvoiceParams{
		Customer:     stripe.String(customerID),
		Subscription: stripe.String(subscriptionID),
		AutoAdvance:  stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := g.api.Invoices.New(params); err != nil {
		return g.upstreamErr("failed to create invoice", err)
	}
	return nil
}

func (g *Gateway) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := g.api.Customers.Get(customerID, params)
	if err != nil {
		return "", g.upstreamErr("failed to retrieve customer", err)
	}
	return customer.Email, nil
}

func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, g.upstreamErr("failed to retrieve subscription", err)
	}
	return sub, nil
}

// UpdateSubscriptionItems applies item changes with proration disabled.
func (g *Gateway) UpdateSubscriptionItems(ctx context.Context, subscriptionID string, changes []billing.ItemChange) (*stripe.Subscription, error) {
	items := make([]*stripe.SubscriptionItemsParams, 0, len(changes))
	for _, ch := range changes {
		item := &stripe.SubscriptionItemsParams{}
		if ch.ItemID != "" {
			item.ID = stripe.String(ch.ItemID)
		}
		if ch.Deleted {
			item.Deleted = stripe.Bool(true)
		} else {
			item.Price = stripe.String(ch.PriceID)
			item.Quantity = stripe.Int64(ch.Quantity)
		}
		items = append(items, item)
	}

	params := &stripe.SubscriptionParams{
		Items:             items,
		ProrationBehavior: stripe.String("none"),
	}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, g.upstreamErr("failed to update subscription", err)
	}
	return sub, nil
}

func (g *Gateway) upstreamErr(msg string, err error) error {
	g.logger.Error("billing API call failed", "error", err)
	return infra.WrapRepoErr(msg, err, infra.KindUpstreamFailure)
}
