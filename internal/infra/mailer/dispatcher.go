package mailer

import (
	"context"
	"log/slog"

	"academy-api/internal/domain/mail"

	"github.com/google/uuid"
)

// OutboxSource is the slice of the outbox repository the dispatcher needs.
type OutboxSource interface {
	ListUnsent(ctx context.Context, limit int) ([]mail.Queued, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// Dispatcher drains the mail outbox. Delivery is at-least-once: a row is
// marked sent only after the send succeeds, and a failed row stays queued
// with its attempt counter bumped.
type Dispatcher struct {
	outbox OutboxSource
	mailer Mailer
	batch  int
	logger *slog.Logger
}

func NewDispatcher(outbox OutboxSource, mailer Mailer, batch int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		outbox: outbox,
		mailer: mailer,
		batch:  batch,
		logger: logger,
	}
}

// RunOnce processes one batch. Send failures are logged per row and do not
// stop the batch.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	queued, err := d.outbox.ListUnsent(ctx, d.batch)
	if err != nil {
		return err
	}

	for _, q := range queued {
		if err := d.mailer.Send(ctx, q.Recipients, q.Subject, q.HTML); err != nil {
			d.logger.Error("mail delivery failed", "mail_id", q.ID, "attempts", q.Attempts+1, "error", err)
			if markErr := d.outbox.MarkFailed(ctx, q.ID); markErr != nil {
				d.logger.Error("failed to record mail failure", "mail_id", q.ID, "error", markErr)
			}
			continue
		}
		if err := d.outbox.MarkSent(ctx, q.ID); err != nil {
			// the next poll will resend this row
			d.logger.Error("failed to mark mail sent", "mail_id", q.ID, "error", err)
		}
	}
	return nil
}
