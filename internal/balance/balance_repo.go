package balance

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock

// Repository is deliberately append-only: there is no update or delete.
// Corrections enter the ledger as new entries.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, e *Entry) error
	FindByID(ctx context.Context, id string) (*Entry, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]Entry, int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) Insert(ctx context.Context, e *Entry) error {
	query := `
        INSERT INTO leave_balance_entries (
            id, user_id, category, amount, year, action, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		e.ID, e.UserID, e.Category, e.Amount, e.Year, e.Action, e.CreatedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Entry, error) {
	query := `
SELECT id, user_id, category, amount::text, year, action, created_at
FROM leave_balance_entries
WHERE id = $1
`

	var e Entry
	err := r.execer().QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Year, &e.Action, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	query := `
SELECT id, user_id, category, amount::text, year, action, created_at
FROM leave_balance_entries
WHERE user_id = $1
ORDER BY created_at ASC
`

	rows, err := r.execer().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *repository) ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]Entry, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_balance_entries WHERE user_id = $1`
	if err := r.execer().QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
SELECT id, user_id, category, amount::text, year, action, created_at
FROM leave_balance_entries
WHERE user_id = $1
ORDER BY created_at ASC
LIMIT $2 OFFSET $3
`

	rows, err := r.execer().QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Year, &e.Action, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
