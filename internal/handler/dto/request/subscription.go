package request

type UpdateSubscriptionRequest struct {
	Deleted         bool    `json:"deleted"`
	PriceID         string  `json:"price_id" binding:"required"`
	Quantity        int64   `json:"quantity"`
	ExistingPriceID *string `json:"existing_price_id,omitempty"`
}
