package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/fixedpoint"
	"go-leave/internal/storage"
	"go-leave/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	createFn                func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn              func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	listFn                  func(ctx context.Context, f leave.ListFilter) ([]leave.LeaveRequest, int64, error)
	updateFieldsFn          func(ctx context.Context, l *leave.LeaveRequest) error
	transitionFromPendingFn func(ctx context.Context, t leave.Transition) (bool, error)
	deleteFn                func(ctx context.Context, id string) error
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeLeaveRepository) UpdateFields(ctx context.Context, l *leave.LeaveRequest) error {
	if f.updateFieldsFn != nil {
		return f.updateFieldsFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) TransitionFromPending(ctx context.Context, t leave.Transition) (bool, error) {
	if f.transitionFromPendingFn != nil {
		return f.transitionFromPendingFn(ctx, t)
	}
	return true, nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeLedgerRepository struct {
	insertFn func(ctx context.Context, e *balance.Entry) error
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) balance.Repository { return f }

func (f *fakeLedgerRepository) Insert(ctx context.Context, e *balance.Entry) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, e)
	}
	return nil
}

func (f *fakeLedgerRepository) FindByID(ctx context.Context, id string) (*balance.Entry, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeLedgerRepository) ListByUser(ctx context.Context, userID string) ([]balance.Entry, error) {
	return nil, nil
}

func (f *fakeLedgerRepository) ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]balance.Entry, int64, error) {
	return nil, 0, nil
}

type fakeFileRepository struct {
	known          map[uuid.UUID]bool
	clearCalled    bool
	setRefsCalls   [][]uuid.UUID
	listByLeaveFn  func(ctx context.Context, leaveRequestID uuid.UUID) ([]storage.StorageFile, error)
	resolveIDsFail bool
}

func newFakeFileRepository(known ...uuid.UUID) *fakeFileRepository {
	f := &fakeFileRepository{known: make(map[uuid.UUID]bool)}
	for _, id := range known {
		f.known[id] = true
	}
	return f
}

func (f *fakeFileRepository) WithTx(tx *sql.Tx) storage.Repository { return f }

func (f *fakeFileRepository) Create(ctx context.Context, file *storage.StorageFile) error {
	f.known[file.ID] = true
	return nil
}

func (f *fakeFileRepository) FindByID(ctx context.Context, id string) (*storage.StorageFile, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeFileRepository) ResolveIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var found []uuid.UUID
	for _, id := range ids {
		if f.known[id] {
			found = append(found, id)
		}
	}
	return found, nil
}

func (f *fakeFileRepository) ListByLeaveRequest(ctx context.Context, leaveRequestID uuid.UUID) ([]storage.StorageFile, error) {
	if f.listByLeaveFn != nil {
		return f.listByLeaveFn(ctx, leaveRequestID)
	}
	return nil, nil
}

func (f *fakeFileRepository) ClearLeaveRefs(ctx context.Context, leaveRequestID uuid.UUID) error {
	f.clearCalled = true
	return nil
}

func (f *fakeFileRepository) SetLeaveRefs(ctx context.Context, ids []uuid.UUID, leaveRequestID uuid.UUID) error {
	f.setRefsCalls = append(f.setRefsCalls, ids)
	return nil
}

func (f *fakeFileRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeUserRepository struct {
	existsFn func(ctx context.Context, id string) (bool, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, id)
	}
	return true, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func mustAmount(s string) fixedpoint.Amount {
	return fixedpoint.MustParse(s)
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeLeaveRepository
	ledger  *fakeLedgerRepository
	files   *fakeFileRepository
	users   *fakeUserRepository
	clock   fixedClock
	service leave.Service
}

func setupLeaveServiceTest(t *testing.T, knownFiles ...uuid.UUID) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	ledger := &fakeLedgerRepository{}
	files := newFakeFileRepository(knownFiles...)
	users := &fakeUserRepository{}
	clock := fixedClock{t: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}

	svc := leave.NewServiceWithOutbox(db, repo, ledger, files, users, nil, clock)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		ledger:  ledger,
		files:   files,
		users:   users,
		clock:   clock,
		service: svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func submitFixture() leave.SubmitLeaveRequest {
	return leave.SubmitLeaveRequest{
		Category:  domain.CategoryAnnual,
		Amount:    "8.00",
		StartDate: "2026-09-07 09:00:00",
		EndDate:   "2026-09-08 18:00:00",
		Reason:    "family trip",
	}
}

func pendingLeave(requesterID uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:          uuid.New(),
		RequesterID: requesterID,
		Category:    domain.CategoryAnnual,
		Amount:      mustAmount("8.00"),
		StartDate:   time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 8, 18, 0, 0, 0, time.UTC),
		Reason:      "family trip",
		Status:      leave.StatusPending,
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()

	t.Run("success without proofs", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		var created *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			created = l
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Submit(ctx, requesterID.String(), submitFixture())

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, leave.StatusPending, created.Status)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, "8.00", resp.Amount)
		assert.Empty(t, resp.ProofRefs)
		assert.Nil(t, resp.ApproverID)
		assert.Nil(t, resp.DecidedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("links proofs in the same transaction", func(t *testing.T) {
		fileA, fileB := uuid.New(), uuid.New()
		deps := setupLeaveServiceTest(t, fileA, fileB)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		req := submitFixture()
		req.ProofRefs = []string{fileA.String(), fileB.String()}

		resp, err := deps.service.Submit(ctx, requesterID.String(), req)

		assert.NoError(t, err)
		assert.Len(t, deps.files.setRefsCalls, 1)
		assert.ElementsMatch(t, []uuid.UUID{fileA, fileB}, deps.files.setRefsCalls[0])
		assert.Len(t, resp.ProofRefs, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown proof ref rolls back everything", func(t *testing.T) {
		fileA := uuid.New()
		deps := setupLeaveServiceTest(t, fileA)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		req := submitFixture()
		req.ProofRefs = []string{fileA.String(), uuid.NewString()}

		_, err := deps.service.Submit(ctx, requesterID.String(), req)

		assert.Error(t, err)
		assert.Empty(t, deps.files.setRefsCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown requester", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.users.existsFn = func(ctx context.Context, id string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Submit(ctx, requesterID.String(), submitFixture())
		assert.ErrorIs(t, err, leaveerrors.ErrRequesterNotFound)
	})

	t.Run("validation failures", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := submitFixture()
		req.Amount = "1.125"
		_, err := deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidAmount)

		req = submitFixture()
		req.Amount = "-2.00"
		_, err = deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidAmount)

		req = submitFixture()
		req.StartDate = "2026-09-09 09:00:00"
		req.EndDate = "2026-09-07 18:00:00"
		_, err = deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

		req = submitFixture()
		req.Reason = "   "
		_, err = deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrEmptyReason)

		req = submitFixture()
		req.StartDate = "09/07/2026"
		_, err = deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

		req = submitFixture()
		req.ProofRefs = []string{"not-a-uuid"}
		_, err = deps.service.Submit(ctx, requesterID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidProofRef)
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	approverID := uuid.New()

	t.Run("debits the ledger with the stored amount", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		var debit *balance.Entry
		deps.ledger.insertFn = func(ctx context.Context, e *balance.Entry) error {
			debit = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, approverID.String(), l.ID.String(), leave.DecideLeaveRequest{})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NotNil(t, resp.DecidedAt)

		assert.NotNil(t, debit)
		assert.Equal(t, requesterID, debit.UserID)
		assert.Equal(t, domain.CategoryAnnual, debit.Category)
		assert.Equal(t, "-8.00", debit.Amount.String())
		assert.Equal(t, balance.ActionConsume, debit.Action)
		assert.Equal(t, deps.clock.t.Year(), debit.Year)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("concurrent decision loses the race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}
		deps.repo.transitionFromPendingFn = func(ctx context.Context, t leave.Transition) (bool, error) {
			return false, nil
		}

		ledgerTouched := false
		deps.ledger.insertFn = func(ctx context.Context, e *balance.Entry) error {
			ledgerTouched = true
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, approverID.String(), l.ID.String(), leave.DecideLeaveRequest{})

		assert.ErrorIs(t, err, leaveerrors.ErrDecisionConflict)
		assert.False(t, ledgerTouched)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		l.Status = leave.StatusRejected
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, approverID.String(), l.ID.String(), leave.DecideLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, approverID.String(), uuid.NewString(), leave.DecideLeaveRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	approverID := uuid.New()

	t.Run("never touches the ledger", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		ledgerTouched := false
		deps.ledger.insertFn = func(ctx context.Context, e *balance.Entry) error {
			ledgerTouched = true
			return nil
		}

		comment := "insufficient coverage that week"
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Reject(ctx, approverID.String(), l.ID.String(), leave.DecideLeaveRequest{Comment: &comment})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.False(t, ledgerTouched)
		assert.NotNil(t, resp.Comment)
		assert.Equal(t, comment, *resp.Comment)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()

	t.Run("owner cancels a pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		var transition leave.Transition
		deps.repo.transitionFromPendingFn = func(ctx context.Context, tr leave.Transition) (bool, error) {
			transition = tr
			return true, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Cancel(ctx, requesterID.String(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCanceled, resp.Status)
		assert.Equal(t, leave.StatusCanceled, transition.ToStatus)
		assert.Nil(t, transition.ApproverID)
		assert.NotNil(t, resp.DecidedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("only the requester may cancel", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, uuid.NewString(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
	})

	t.Run("decided request cannot be canceled", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Cancel(ctx, requesterID.String(), l.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	actorID := uuid.New()

	t.Run("edits a pending request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		var updated *leave.LeaveRequest
		deps.repo.updateFieldsFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			updated = l
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		req := leave.UpdateLeaveRequest{
			Category:  domain.CategorySick,
			Amount:    "4.50",
			StartDate: "2026-09-10",
			EndDate:   "2026-09-10",
			Reason:    "doctor appointment",
		}

		resp, err := deps.service.Update(ctx, actorID.String(), l.ID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, domain.CategorySick, updated.Category)
		assert.Equal(t, "4.50", updated.Amount.String())
		assert.Equal(t, "4.50", resp.Amount)
		// Absent proof_refs leaves attachments alone.
		assert.False(t, deps.files.clearCalled)
		assert.Empty(t, deps.files.setRefsCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("empty proof set detaches everything", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, true)

		empty := []string{}
		req := leave.UpdateLeaveRequest{
			Category:  domain.CategoryAnnual,
			Amount:    "8.00",
			StartDate: "2026-09-07",
			EndDate:   "2026-09-08",
			Reason:    "family trip",
			ProofRefs: &empty,
		}

		_, err := deps.service.Update(ctx, actorID.String(), l.ID.String(), req)

		assert.NoError(t, err)
		assert.True(t, deps.files.clearCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("decided request is immutable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		l.Status = leave.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, false)

		req := leave.UpdateLeaveRequest{
			Category:  domain.CategoryAnnual,
			Amount:    "8.00",
			StartDate: "2026-09-07",
			EndDate:   "2026-09-08",
			Reason:    "family trip",
		}

		_, err := deps.service.Update(ctx, actorID.String(), l.ID.String(), req)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestLeaveService_Delete(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	actorID := uuid.New()

	t.Run("removes a pending request and its links", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		err := deps.service.Delete(ctx, actorID.String(), l.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.True(t, deps.files.clearCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("refuses a decided request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		for _, status := range []string{leave.StatusApproved, leave.StatusRejected} {
			l := pendingLeave(requesterID)
			l.Status = status
			deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			}

			expectTx(t, deps.sqlMock, false)

			err := deps.service.Delete(ctx, actorID.String(), l.ID.String())
			assert.ErrorIs(t, err, leaveerrors.ErrDecidedRequestImmutable, status)
		}
	})

	t.Run("canceled request can be deleted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		l := pendingLeave(requesterID)
		l.Status = leave.StatusCanceled
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
			return l, nil
		}

		expectTx(t, deps.sqlMock, true)

		assert.NoError(t, deps.service.Delete(ctx, actorID.String(), l.ID.String()))
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "42")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}
