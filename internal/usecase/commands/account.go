package commands

import (
	"context"
	"log/slog"

	"academy-api/internal/infra"
	"academy-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUserNotFound = errs.New("user not found")

// AccountCommands covers the small admin maintenance surface: email changes,
// manual verification and the legacy profile-id backfill.
type AccountCommands interface {
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error
	VerifyUser(ctx context.Context, userID uuid.UUID) error
	BackfillProfileIDs(ctx context.Context) (int64, error)
}

type accountUseCaseImpl struct {
	users    UserRepository
	profiles ProfileRepository
	logger   *slog.Logger
}

func NewAccountCommands(users UserRepository, profiles ProfileRepository, logger *slog.Logger) AccountCommands {
	return &accountUseCaseImpl{
		users:    users,
		profiles: profiles,
		logger:   logger,
	}
}

func (u *accountUseCaseImpl) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	if err := u.users.UpdateEmail(ctx, userID, email); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	u.logger.Info("updated user email", "user_id", userID)
	return nil
}

func (u *accountUseCaseImpl) VerifyUser(ctx context.Context, userID uuid.UUID) error {
	if err := u.users.MarkEmailVerified(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	u.logger.Info("verified user", "user_id", userID)
	return nil
}

func (u *accountUseCaseImpl) BackfillProfileIDs(ctx context.Context) (int64, error) {
	count, err := u.profiles.BackfillLegacyIDs(ctx)
	if err != nil {
		return 0, err
	}
	u.logger.Info("backfilled legacy profile ids", "count", count)
	return count, nil
}
