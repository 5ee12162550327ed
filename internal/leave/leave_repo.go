package leave

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows List results. The date window matches any request
// whose [start_date, end_date] overlaps [WindowStart, WindowEnd].
type ListFilter struct {
	Category    string
	Status      string
	WindowStart *time.Time
	WindowEnd   *time.Time
	Limit       int
	Offset      int
}

// Transition carries a PENDING→terminal state change. The repository
// applies it as a compare-and-set on the current status.
type Transition struct {
	ID         uuid.UUID
	ToStatus   string
	ApproverID *uuid.UUID
	Comment    *string
	DecidedAt  time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	List(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error)
	UpdateFields(ctx context.Context, l *LeaveRequest) error
	TransitionFromPending(ctx context.Context, t Transition) (bool, error)
	Delete(ctx context.Context, id string) error
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

const leaveColumns = `
	id, requester_id, approver_id, category, amount::text,
	start_date, end_date, reason, comment, status,
	decided_at, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests (
            id, requester_id, approver_id, category, amount,
            start_date, end_date, reason, comment, status,
            decided_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.RequesterID, l.ApproverID, l.Category, l.Amount,
		l.StartDate, l.EndDate, l.Reason, l.Comment, l.Status,
		l.DecidedAt, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1`

	var l LeaveRequest
	err := r.execer().QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.RequesterID, &l.ApproverID, &l.Category, &l.Amount,
		&l.StartDate, &l.EndDate, &l.Reason, &l.Comment, &l.Status,
		&l.DecidedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error) {
	where := ""
	var args []any

	addClause := func(clause string, value any) {
		args = append(args, value)
		marker := "$" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += clause + " " + marker
	}

	if f.Category != "" {
		addClause("category =", f.Category)
	}
	if f.Status != "" {
		addClause("status =", f.Status)
	}
	if f.WindowStart != nil && f.WindowEnd != nil {
		args = append(args, *f.WindowStart, *f.WindowEnd)
		startMarker := "$" + strconv.Itoa(len(args)-1)
		endMarker := "$" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += "NOT (end_date < " + startMarker + " OR start_date > " + endMarker + ")"
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests` + where
	if err := r.execer().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	limitMarker := "$" + strconv.Itoa(len(args)-1)
	offsetMarker := "$" + strconv.Itoa(len(args))
	query := `SELECT ` + leaveColumns + ` FROM leave_requests` + where +
		` ORDER BY updated_at DESC LIMIT ` + limitMarker + ` OFFSET ` + offsetMarker

	rows, err := r.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leaves []LeaveRequest
	for rows.Next() {
		var l LeaveRequest
		if err := rows.Scan(
			&l.ID, &l.RequesterID, &l.ApproverID, &l.Category, &l.Amount,
			&l.StartDate, &l.EndDate, &l.Reason, &l.Comment, &l.Status,
			&l.DecidedAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

// UpdateFields rewrites the editable fields of a still-pending request.
// The status guard keeps a concurrent decision from being overwritten.
func (r *repository) UpdateFields(ctx context.Context, l *LeaveRequest) error {
	query := `
        UPDATE leave_requests
        SET category = $2, amount = $3, start_date = $4, end_date = $5,
            reason = $6, comment = $7, updated_at = $8
        WHERE id = $1 AND status = $9
    `

	result, err := r.execer().ExecContext(
		ctx, query,
		l.ID, l.Category, l.Amount, l.StartDate, l.EndDate,
		l.Reason, l.Comment, l.UpdatedAt, StatusPending,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// TransitionFromPending is the single serialization point for decisions:
// the UPDATE only matches while the row is still PENDING, so of N racing
// deciders exactly one sees an affected row.
func (r *repository) TransitionFromPending(ctx context.Context, t Transition) (bool, error) {
	query := `
        UPDATE leave_requests
        SET status = $2, approver_id = $3, comment = COALESCE($4, comment),
            decided_at = $5, updated_at = $5
        WHERE id = $1 AND status = $6
    `

	result, err := r.execer().ExecContext(
		ctx, query,
		t.ID, t.ToStatus, t.ApproverID, t.Comment, t.DecidedAt, StatusPending,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.execer().ExecContext(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
