package commands

import (
	"context"

	"academy-api/internal/domain/billing"
	"academy-api/internal/pkg/errs"

	stripe "github.com/stripe/stripe-go/v79"
)

var ErrSubscriptionItemNotFound = errs.New("subscription item not found")

type UpdateSubscriptionParams struct {
	Deleted         bool
	PriceID         string
	Quantity        int64
	ExistingPriceID *string
}

type SubscriptionCommands interface {
	UpdateSubscription(ctx context.Context, subscriptionID string, p UpdateSubscriptionParams) (*stripe.Subscription, error)
}

type subscriptionUseCaseImpl struct {
	gateway BillingGateway
}

func NewSubscriptionCommands(gateway BillingGateway) SubscriptionCommands {
	return &subscriptionUseCaseImpl{gateway: gateway}
}

// UpdateSubscription swaps or removes one plan item on a subscription.
// With Deleted set, the item whose plan matches PriceID is removed; otherwise
// PriceID/Quantity is attached and the item matching ExistingPriceID, when
// present, is removed in the same call. Proration stays disabled.
func (u *subscriptionUseCaseImpl) UpdateSubscription(ctx context.Context, subscriptionID string, p UpdateSubscriptionParams) (*stripe.Subscription, error) {
	sub, err := u.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if p.Deleted {
		item := findItemByPlan(sub, p.PriceID)
		if item == nil {
			return nil, ErrSubscriptionItemNotFound
		}
		return u.gateway.UpdateSubscriptionItems(ctx, subscriptionID, []billing.ItemChange{
			{ItemID: item.ID, Deleted: true},
		})
	}

	changes := []billing.ItemChange{
		{PriceID: p.PriceID, Quantity: p.Quantity},
	}
	if p.ExistingPriceID != nil {
		if item := findItemByPlan(sub, *p.ExistingPriceID); item != nil {
			changes = append(changes, billing.ItemChange{ItemID: item.ID, Deleted: true})
		}
	}
	return u.gateway.UpdateSubscriptionItems(ctx, subscriptionID, changes)
}

func findItemByPlan(sub *stripe.Subscription, planID string) *stripe.SubscriptionItem {
	if sub.Items == nil {
		return nil
	}
	for _, item := range sub.Items.Data {
		if item.Plan != nil && item.Plan.ID == planID {
			return item
		}
	}
	return nil
}
