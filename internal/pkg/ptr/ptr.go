package ptr

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func To[T any](v T) *T {
	return &v
}

func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func TimeFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}
