package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
type UserRepo interface {
	// Upsert creates the user profile and its quota row if either is
	// absent. No-op when both already exist, so bot /start is safe to
	// repeat.
	Upsert(ctx context.Context, tgID int64, username string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func (r *PGUserRepo) Upsert(ctx context.Context, tgID int64, username string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (tg_id, username)
		VALUES ($1, $2)
		ON CONFLICT (tg_id) DO NOTHING`, tgID, username)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO usage_limits (user_id, requests_count)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`, tgID)
	return err
}
