package repo_impl

import (
	"context"

	"academy-api/internal/infra"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BillingEventRepository struct {
	db *pgxpool.Pool
}

func NewBillingEventRepository(db *pgxpool.Pool) *BillingEventRepository {
	return &BillingEventRepository{db: db}
}

// TryInsert records a webhook delivery by its event id. It returns false when
// the event was already recorded, which makes redelivered webhooks no-ops.
func (r *BillingEventRepository) TryInsert(ctx context.Context, eventID, eventType string) (bool, error) {
	const query = `
		INSERT INTO processed_billing_events (event_id, event_type)
		VALUES ($1, $2)
		ON CONFLICT (event_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, eventID, eventType)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record billing event", err)
	}
	return tag.RowsAffected() == 1, nil
}
