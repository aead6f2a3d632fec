package repo

import (
	"context"

	dom "github.com/stetat/ToDo-bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	// ListByOwner returns a fresh snapshot ordered by ascending id
	// (= insertion order). Ordinal resolution depends on this ordering.
	ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	MarkDone(ctx context.Context, ownerID, id int64) (dom.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
	Summarize(ctx context.Context, ownerID int64) (dom.Summary, error)
	// ListIncompleteWithDeadline returns tasks across all owners that may
	// still need a reminder. Used to rehydrate the scheduler at startup.
	ListIncompleteWithDeadline(ctx context.Context) ([]dom.Task, error)
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, status, description, created_at, deadline)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, status, description, created_at, deadline`
	var out dom.Task
	err := r.db.QueryRow(ctx, query, t.OwnerID, t.Status, t.Description, t.CreatedAt, t.Deadline).Scan(
		&out.ID, &out.OwnerID, &out.Status, &out.Description, &out.CreatedAt, &out.Deadline,
	)
	return out, err
}

func (r *PGTaskRepo) ListByOwner(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	query := `
		SELECT id, owner_id, status, description, created_at, deadline
		FROM tasks WHERE owner_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PGTaskRepo) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

func (r *PGTaskRepo) MarkDone(ctx context.Context, ownerID, id int64) (dom.Task, error) {
	query := `
		UPDATE tasks SET status = $3
		WHERE owner_id = $1 AND id = $2
		RETURNING id, owner_id, status, description, created_at, deadline`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, ownerID, id, dom.StatusDone).Scan(
		&t.ID, &t.OwnerID, &t.Status, &t.Description, &t.CreatedAt, &t.Deadline,
	)
	return t, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, ownerID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return err
}

func (r *PGTaskRepo) Summarize(ctx context.Context, ownerID int64) (dom.Summary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $2),
		       COUNT(*) FILTER (WHERE status = $3)
		FROM tasks WHERE owner_id = $1`
	var s dom.Summary
	err := r.db.QueryRow(ctx, query, ownerID, dom.StatusDone, dom.StatusIncomplete).Scan(
		&s.Total, &s.Done, &s.Incomplete,
	)
	return s, err
}

func (r *PGTaskRepo) ListIncompleteWithDeadline(ctx context.Context) ([]dom.Task, error) {
	query := `
		SELECT id, owner_id, status, description, created_at, deadline
		FROM tasks WHERE status = $1 AND deadline IS NOT NULL ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query, dom.StatusIncomplete)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]dom.Task, error) {
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Status, &t.Description, &t.CreatedAt, &t.Deadline); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
