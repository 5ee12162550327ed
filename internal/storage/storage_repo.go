package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=storage_repo.go -destination=mock/storage_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, f *StorageFile) error
	FindByID(ctx context.Context, id string) (*StorageFile, error)
	ResolveIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	ListByLeaveRequest(ctx context.Context, leaveRequestID uuid.UUID) ([]StorageFile, error)
	ClearLeaveRefs(ctx context.Context, leaveRequestID uuid.UUID) error
	SetLeaveRefs(ctx context.Context, ids []uuid.UUID, leaveRequestID uuid.UUID) error
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

func (r *repository) Create(ctx context.Context, f *StorageFile) error {
	query := `
        INSERT INTO storage_files (
            id, name, file_name, ext_name, path, type, size, user_id, leave_request_id, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		f.ID, f.Name, f.FileName, f.ExtName, f.Path, f.Type, f.Size,
		f.UserID, f.LeaveRequestID, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*StorageFile, error) {
	query := `
SELECT id, name, COALESCE(file_name, ''), COALESCE(ext_name, ''), path,
       COALESCE(type, ''), COALESCE(size, ''), user_id, leave_request_id,
       created_at, updated_at
FROM storage_files
WHERE id = $1
`

	var f StorageFile
	err := r.execer().QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.FileName, &f.ExtName, &f.Path,
		&f.Type, &f.Size, &f.UserID, &f.LeaveRequestID,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ResolveIDs returns the subset of ids that exist. Callers compare lengths
// to detect dangling references.
func (r *repository) ResolveIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id FROM storage_files WHERE id IN (` + placeholders(len(ids)) + `)`

	rows, err := r.execer().QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make([]uuid.UUID, 0, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

func (r *repository) ListByLeaveRequest(ctx context.Context, leaveRequestID uuid.UUID) ([]StorageFile, error) {
	query := `
SELECT id, name, COALESCE(file_name, ''), COALESCE(ext_name, ''), path,
       COALESCE(type, ''), COALESCE(size, ''), user_id, leave_request_id,
       created_at, updated_at
FROM storage_files
WHERE leave_request_id = $1
ORDER BY created_at ASC
`

	rows, err := r.execer().QueryContext(ctx, query, leaveRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []StorageFile
	for rows.Next() {
		var f StorageFile
		if err := rows.Scan(
			&f.ID, &f.Name, &f.FileName, &f.ExtName, &f.Path,
			&f.Type, &f.Size, &f.UserID, &f.LeaveRequestID,
			&f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *repository) ClearLeaveRefs(ctx context.Context, leaveRequestID uuid.UUID) error {
	query := `UPDATE storage_files SET leave_request_id = NULL, updated_at = $2 WHERE leave_request_id = $1`
	_, err := r.execer().ExecContext(ctx, query, leaveRequestID, time.Now().UTC())
	return err
}

func (r *repository) SetLeaveRefs(ctx context.Context, ids []uuid.UUID, leaveRequestID uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE storage_files SET leave_request_id = $1, updated_at = $2 WHERE id IN (` +
		placeholders(len(ids), 2) + `)`

	args := append([]any{leaveRequestID, time.Now().UTC()}, idArgs(ids)...)
	_, err := r.execer().ExecContext(ctx, query, args...)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.execer().ExecContext(ctx, `DELETE FROM storage_files WHERE id = $1`, id)
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

// placeholders renders "$n, $n+1, ..." for IN clauses, offset by the number
// of preceding args.
func placeholders(count int, offset ...int) string {
	start := 1
	if len(offset) > 0 {
		start = offset[0] + 1
	}

	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$" + strconv.Itoa(start+i))
	}
	return b.String()
}

func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
