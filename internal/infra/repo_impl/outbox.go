package repo_impl

import (
	"context"

	"academy-api/internal/domain/mail"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutboxRepository struct {
	db *pgxpool.Pool
}

func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue inserts a mail request. Callers treat this as fire-and-forget; the
// dispatcher owns delivery and retries.
func (r *OutboxRepository) Enqueue(ctx context.Context, msg mail.Message) error {
	const query = `
		INSERT INTO mail_outbox (id, recipients, subject, html_body)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, uuid.New(), msg.Recipients, msg.Content.Subject, msg.Content.HTML)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue mail", err)
	}
	return nil
}

func (r *OutboxRepository) ListUnsent(ctx context.Context, limit int) ([]mail.Queued, error) {
	const query = `
		SELECT id, recipients, subject, html_body, attempts, created_at, sent_at
		FROM mail_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list unsent mail", err)
	}
	defer rows.Close()

	var out []mail.Queued
	for rows.Next() {
		var q mail.Queued
		var sentAt pgtype.Timestamptz
		if err := rows.Scan(&q.ID, &q.Recipients, &q.Subject, &q.HTML, &q.Attempts, &q.CreatedAt, &sentAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan mail row", err)
		}
		q.SentAt = ptr.TimeFromPgtype(sentAt)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read unsent mail", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE mail_outbox SET sent_at = now() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark mail sent", err)
	}
	return nil
}

// MarkFailed bumps the attempt counter and leaves the row for the next poll.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE mail_outbox SET attempts = attempts + 1 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark mail failed", err)
	}
	return nil
}
