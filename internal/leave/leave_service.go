package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/domain"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/fixedpoint"
	"go-leave/internal/storage"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock supplies decision timestamps so tests can pin them.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, requesterID string, req SubmitLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, q ListLeavesQuery) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	ledger     balance.Repository
	files      storage.Repository
	reconciler *storage.Reconciler
	users      user.Repository
	outbox     kafka.OutboxRepository
	clock      Clock
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Repository,
	files storage.Repository,
	users user.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, ledger, files, users, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	ledger balance.Repository,
	files storage.Repository,
	users user.Repository,
	outboxRepo kafka.OutboxRepository,
	clock Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &service{
		db:         db,
		repo:       repo,
		ledger:     ledger,
		files:      files,
		reconciler: storage.NewReconciler(files, l),
		users:      users,
		outbox:     outboxRepo,
		clock:      clock,
		logger:     l,
	}
}

func (s *service) Submit(ctx context.Context, requesterID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("requester_id", requesterID),
		zap.String("category", req.Category),
		zap.String("amount", req.Amount),
	)

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequesterID
	}
	amount, startDate, endDate, err := validateMutableFields(req.Category, req.Amount, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	proofRefs, err := parseProofRefs(req.ProofRefs)
	if err != nil {
		return LeaveResponse{}, err
	}

	exists, err := s.users.Exists(ctx, requesterID)
	if err != nil {
		s.logger.Error("submit leave requester lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrRequesterNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := s.clock.Now()
	l := &LeaveRequest{
		ID:          uuid.New(),
		RequesterID: requesterUUID,
		Category:    req.Category,
		Amount:      amount,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      strings.TrimSpace(req.Reason),
		Comment:     req.Comment,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Proof linking commits with the insert or not at all: one unresolved
	// ref rolls back the whole submission.
	if len(proofRefs) > 0 {
		if err := s.reconciler.WithTx(tx).Link(ctx, l.ID, proofRefs); err != nil {
			s.logger.Warn("submit leave proof link failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("requester_id", requesterID),
		zap.Int("proof_count", len(proofRefs)),
	)

	return mapToResponse(*l, req.ProofRefs), nil
}

func (s *service) GetAll(ctx context.Context, q ListLeavesQuery) ([]LeaveResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	filter := ListFilter{
		Category: q.Category,
		Status:   q.Status,
		Limit:    q.PageSize,
		Offset:   (q.Page - 1) * q.PageSize,
	}
	if q.StartDate != "" && q.EndDate != "" {
		start, err := parseDateTime(q.StartDate)
		if err != nil {
			return nil, 0, err
		}
		end, err := parseDateTime(q.EndDate)
		if err != nil {
			return nil, 0, err
		}
		filter.WindowStart = &start
		filter.WindowEnd = &end
	}

	leaves, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		refs, err := s.proofRefStrings(ctx, l.ID)
		if err != nil {
			return nil, 0, err
		}
		resp[i] = mapToResponse(l, refs)
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	refs, err := s.proofRefStrings(ctx, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, refs), nil
}

// Update edits a still-pending request. Ownership is not checked here:
// reviewers may adjust a submission before deciding, and route-level
// authorization decides who gets this far.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	amount, startDate, endDate, err := validateMutableFields(req.Category, req.Amount, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return LeaveResponse{}, err
	}

	var proofRefs []uuid.UUID
	if req.ProofRefs != nil {
		proofRefs, err = parseProofRefs(*req.ProofRefs)
		if err != nil {
			return LeaveResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Category = req.Category
	l.Amount = amount
	l.StartDate = startDate
	l.EndDate = endDate
	l.Reason = strings.TrimSpace(req.Reason)
	if req.Comment != nil {
		l.Comment = req.Comment
	}
	l.UpdatedAt = s.clock.Now()

	if err := qtx.UpdateFields(ctx, l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row left PENDING between the read and the write.
			return LeaveResponse{}, leaveerrors.ErrDecisionConflict
		}
		s.logger.Error("update leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	// Full replace of the attachment set, inside the same transaction, so
	// no reader ever sees the refs half-moved.
	if req.ProofRefs != nil {
		if err := s.reconciler.WithTx(tx).Reconcile(ctx, l.ID, proofRefs); err != nil {
			s.logger.Warn("update leave proof reconcile failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	refs, err := s.proofRefStrings(ctx, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, refs), nil
}

// Cancel is self-service: only the requester may cancel, and only while
// the request is still pending. It never touches the ledger.
func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	s.logger.Debug("cancel leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.RequesterID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	ok, err := qtx.TransitionFromPending(ctx, Transition{
		ID:        l.ID,
		ToStatus:  StatusCanceled,
		DecidedAt: now,
	})
	if err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrDecisionConflict
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("cancel leave success", zap.String("leave_id", id))

	l.Status = StatusCanceled
	l.DecidedAt = &now
	l.UpdatedAt = now

	refs, err := s.proofRefStrings(ctx, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, refs), nil
}

func (s *service) Approve(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, approverID, id, StatusApproved, req.Comment)
}

func (s *service) Reject(ctx context.Context, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	return s.decide(ctx, approverID, id, StatusRejected, req.Comment)
}

// decide moves a pending request to APPROVED or REJECTED. Approval debits
// the requester's balance with the stored amount and category — never
// anything the decider supplies — and both writes commit together.
func (s *service) decide(ctx context.Context, approverID, id, outcome string, comment *string) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("approver_id", approverID),
		zap.String("outcome", outcome),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if IsTerminalStatus(l.Status) {
		s.logger.Warn("decide leave invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", outcome),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	ok, err := qtx.TransitionFromPending(ctx, Transition{
		ID:         l.ID,
		ToStatus:   outcome,
		ApproverID: &approverUUID,
		Comment:    comment,
		DecidedAt:  now,
	})
	if err != nil {
		s.logger.Error("decide leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !ok {
		// Lost the race: someone else decided between our read and write.
		return LeaveResponse{}, leaveerrors.ErrDecisionConflict
	}

	if outcome == StatusApproved {
		entry := &balance.Entry{
			ID:        uuid.New(),
			UserID:    l.RequesterID,
			Category:  l.Category,
			Amount:    l.Amount.Neg(),
			Year:      now.Year(),
			Action:    balance.ActionConsume,
			CreatedAt: now,
		}
		if err := s.ledger.WithTx(tx).Insert(ctx, entry); err != nil {
			s.logger.Error("decide leave ledger write failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if s.outbox != nil {
		if err := s.enqueueDecidedEvent(ctx, tx, l, approverID, outcome, now); err != nil {
			s.logger.Error("decide leave outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", outcome),
	)

	l.Status = outcome
	l.ApproverID = &approverUUID
	l.DecidedAt = &now
	l.UpdatedAt = now
	if comment != nil {
		l.Comment = comment
	}

	refs, err := s.proofRefStrings(ctx, l.ID)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l, refs), nil
}

// Delete removes a request that never affected the ledger. APPROVED and
// REJECTED requests are immutable history: an approved request already
// debited the balance, and deleting it would strand that entry.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}
	if l.Status == StatusApproved || l.Status == StatusRejected {
		return leaveerrors.ErrDecidedRequestImmutable
	}

	if err := s.reconciler.WithTx(tx).Unlink(ctx, l.ID); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete leave success",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)
	return nil
}

func (s *service) enqueueDecidedEvent(
	ctx context.Context,
	tx *sql.Tx,
	l *LeaveRequest,
	approverID, outcome string,
	decidedAt time.Time,
) error {
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   "leave.decided",
		LeaveID:     l.ID.String(),
		RequesterID: l.RequesterID.String(),
		ApproverID:  approverID,
		Category:    l.Category,
		Amount:      l.Amount.String(),
		Outcome:     outcome,
		OccurredAt:  decidedAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) proofRefStrings(ctx context.Context, leaveID uuid.UUID) ([]string, error) {
	files, err := s.files.ListByLeaveRequest(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	refs := make([]string, len(files))
	for i, f := range files {
		refs[i] = f.ID.String()
	}
	return refs, nil
}

func validateMutableFields(category, amountStr, startStr, endStr, reason string) (fixedpoint.Amount, time.Time, time.Time, error) {
	var zero fixedpoint.Amount

	if !domain.IsValidCategory(category) {
		return zero, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCategory
	}
	amount, err := fixedpoint.Parse(amountStr)
	if err != nil || !amount.IsPositive() {
		return zero, time.Time{}, time.Time{}, leaveerrors.ErrInvalidAmount
	}
	startDate, err := parseDateTime(startStr)
	if err != nil {
		return zero, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDateTime(endStr)
	if err != nil {
		return zero, time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return zero, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if strings.TrimSpace(reason) == "" {
		return zero, time.Time{}, time.Time{}, leaveerrors.ErrEmptyReason
	}
	return amount, startDate, endDate, nil
}

func parseDateTime(v string) (time.Time, error) {
	if t, err := time.Parse(dateTimeLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseProofRefs(refs []string) ([]uuid.UUID, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(refs))
	parsed := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		id, err := uuid.Parse(ref)
		if err != nil {
			return nil, leaveerrors.ErrInvalidProofRef
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return parsed, nil
}
