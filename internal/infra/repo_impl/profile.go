package repo_impl

import (
	"context"
	"errors"

	"academy-api/internal/domain/profile"
	"academy-api/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindStudent(ctx context.Context, id uuid.UUID) (*profile.Student, error) {
	const query = `
		SELECT sp.id, sp.user_id, sp.last_name, sp.first_name, sp.num_points, u.email, u.time_zone
		FROM student_profiles sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.id = $1`

	var s profile.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.LastName, &s.FirstName, &s.NumPoints, &s.Email, &s.TimeZone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("student profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find student profile", err)
	}
	return &s, nil
}

func (r *ProfileRepository) FindTeacher(ctx context.Context, id uuid.UUID) (*profile.Teacher, error) {
	const query = `
		SELECT tp.id, tp.user_id, tp.last_name, tp.first_name, u.email, u.time_zone
		FROM teacher_profiles tp
		JOIN users u ON u.id = tp.user_id
		WHERE tp.id = $1`

	var t profile.Teacher
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.LastName, &t.FirstName, &t.Email, &t.TimeZone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("teacher profile not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find teacher profile", err)
	}
	return &t, nil
}

// AddStudentPoints applies a balance delta as a single atomic increment and
// returns the new balance. Callers must not read-modify-write around this.
func (r *ProfileRepository) AddStudentPoints(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	const query = `
		UPDATE student_profiles
		SET num_points = num_points + $2, updated_at = now()
		WHERE id = $1
		RETURNING num_points`

	var balance int
	err := r.db.QueryRow(ctx, query, id, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, infra.WrapRepoErr("student profile not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to add student points", err)
	}
	return balance, nil
}

// BackfillLegacyIDs mirrors each student profile's key into its legacy id
// column. One-shot maintenance operation kept for older clients.
func (r *ProfileRepository) BackfillLegacyIDs(ctx context.Context) (int64, error) {
	const query = `
		UPDATE student_profiles
		SET legacy_id = id::text
		WHERE legacy_id IS NULL`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to backfill legacy profile ids", err)
	}
	return tag.RowsAffected(), nil
}
