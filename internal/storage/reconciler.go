package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reconciler keeps the leave_request_id back-reference on storage_files in
// sync with a request's desired proof set. It never touches file contents,
// only references. Callers own the transaction: reconciliation must commit
// together with the request mutation it belongs to, so every entry point
// here is expected to run on a WithTx-scoped repository.
type Reconciler struct {
	repo   Repository
	logger *zap.Logger
}

func NewReconciler(repo Repository, logger ...*zap.Logger) *Reconciler {
	l := zap.L().Named("storage.reconciler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.reconciler")
	}
	return &Reconciler{repo: repo, logger: l}
}

// WithTx returns a reconciler whose statements run inside tx.
func (r *Reconciler) WithTx(tx *sql.Tx) *Reconciler {
	return &Reconciler{repo: r.repo.WithTx(tx), logger: r.logger}
}

// Link attaches refs to a freshly created request. Every ref must resolve;
// a single unknown id fails the whole call and nothing is linked.
func (r *Reconciler) Link(ctx context.Context, requestID uuid.UUID, refs []uuid.UUID) error {
	if len(refs) == 0 {
		return nil
	}

	if err := r.resolveAll(ctx, refs); err != nil {
		return err
	}

	return r.repo.SetLeaveRefs(ctx, refs, requestID)
}

// Reconcile is a full replace: after it returns, exactly the files in
// desired reference requestID, regardless of the previous state. Running it
// twice with the same set is a no-op the second time.
func (r *Reconciler) Reconcile(ctx context.Context, requestID uuid.UUID, desired []uuid.UUID) error {
	// Validate before unlinking anything so a bad set leaves the existing
	// links untouched.
	if err := r.resolveAll(ctx, desired); err != nil {
		return err
	}

	if err := r.repo.ClearLeaveRefs(ctx, requestID); err != nil {
		return err
	}

	if err := r.repo.SetLeaveRefs(ctx, desired, requestID); err != nil {
		return err
	}

	r.logger.Debug("proof refs reconciled",
		zap.String("leave_request_id", requestID.String()),
		zap.Int("ref_count", len(desired)),
	)
	return nil
}

// Unlink detaches every file from the request. Used when a request is
// deleted.
func (r *Reconciler) Unlink(ctx context.Context, requestID uuid.UUID) error {
	return r.repo.ClearLeaveRefs(ctx, requestID)
}

func (r *Reconciler) resolveAll(ctx context.Context, refs []uuid.UUID) error {
	if len(refs) == 0 {
		return nil
	}

	found, err := r.repo.ResolveIDs(ctx, refs)
	if err != nil {
		return err
	}
	if len(found) == len(refs) {
		return nil
	}

	foundSet := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		foundSet[id] = struct{}{}
	}
	var missing []string
	for _, id := range refs {
		if _, ok := foundSet[id]; !ok {
			missing = append(missing, id.String())
		}
	}

	return apperror.Wrap(
		fmt.Errorf("unresolved proof refs: %v", missing),
		apperror.CodeInvalidInput,
		"some proof file references do not exist",
		http.StatusBadRequest,
	)
}
