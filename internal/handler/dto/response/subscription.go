package response

import (
	stripe "github.com/stripe/stripe-go/v79"
)

type SubscriptionItemResponse struct {
	ID       string `json:"id"`
	PlanID   string `json:"planId,omitempty"`
	Quantity int64  `json:"quantity"`
}

type SubscriptionResponse struct {
	ID     string                      `json:"id"`
	Status string                      `json:"status"`
	Items  []*SubscriptionItemResponse `json:"items"`
}

func FromSubscription(sub *stripe.Subscription) *SubscriptionResponse {
	resp := &SubscriptionResponse{
		ID:     sub.ID,
		Status: string(sub.Status),
		Items:  []*SubscriptionItemResponse{},
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			r := &SubscriptionItemResponse{ID: item.ID, Quantity: item.Quantity}
			if item.Plan != nil {
				r.PlanID = item.Plan.ID
			}
			resp.Items = append(resp.Items, r)
		}
	}
	return resp
}
