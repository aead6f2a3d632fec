package repo

import (
	"context"
	"time"

	dom "github.com/stetat/ToDo-bot/internal/domain"
	"github.com/stetat/ToDo-bot/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuotaRepo is the per-user daily counter for the advice feature.
type QuotaRepo interface {
	// CheckAndRoll reports whether the user may make another advice request
	// today. Checking is NOT read-only: if the stored day differs from
	// today, the counter is reset to 0 for today first (lazy rollover).
	// The read-compare-reset runs in one transaction with the row locked.
	CheckAndRoll(ctx context.Context, userID int64, limit int) (bool, error)
	// Consume increments the counter unconditionally. Callers are expected
	// to have called CheckAndRoll in the same serialized unit.
	Consume(ctx context.Context, userID int64) error
	GrantUnlimited(ctx context.Context, userID int64) error
}

// PGQuotaRepo implements QuotaRepo with Postgres.
type PGQuotaRepo struct {
	db *pgxpool.Pool
}

func NewPGQuotaRepo(db *pgxpool.Pool) *PGQuotaRepo {
	return &PGQuotaRepo{db: db}
}

func (r *PGQuotaRepo) CheckAndRoll(ctx context.Context, userID int64, limit int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var ul dom.UsageLimit
	err = tx.QueryRow(ctx, `
		SELECT user_id, day, requests_count, unlimited
		FROM usage_limits WHERE user_id = $1 FOR UPDATE`, userID).Scan(
		&ul.UserID, &ul.Day, &ul.RequestsCount, &ul.Unlimited,
	)
	if err != nil {
		return false, err
	}

	reset, ok := rollState(ul, time.Now(), limit)
	if reset {
		if _, err := tx.Exec(ctx, `
			UPDATE usage_limits SET day = $2, requests_count = 0
			WHERE user_id = $1`, userID, time.Now()); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return ok, nil
}

// rollState decides the lazy rollover: whether the counter must be reset for
// today and whether the user is under the limit afterwards.
func rollState(ul dom.UsageLimit, now time.Time, limit int) (reset, ok bool) {
	if ul.Unlimited {
		return false, true
	}
	if ul.Day == nil || !utils.SameDay(*ul.Day, now) {
		return true, true
	}
	return false, ul.RequestsCount < limit
}

func (r *PGQuotaRepo) Consume(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE usage_limits SET requests_count = requests_count + 1
		WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PGQuotaRepo) GrantUnlimited(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE usage_limits SET unlimited = TRUE
		WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
