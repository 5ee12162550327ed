package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/shared/fixedpoint"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	statsKeyPrefix = "leave:stats:"
	statsCacheTTL  = 5 * time.Minute
)

func statsCacheKey(userID string) string {
	return statsKeyPrefix + userID
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Grant(ctx context.Context, req GrantBalanceRequest) (EntryResponse, error)
	GetAll(ctx context.Context, userID string, page, pageSize int) ([]EntryResponse, int64, error)
	GetByID(ctx context.Context, id string) (EntryResponse, error)
	Stats(ctx context.Context, userID string) (CategoryTotals, error)
	InvalidateStats(ctx context.Context, userID string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Grant(ctx context.Context, req GrantBalanceRequest) (EntryResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return EntryResponse{}, balanceerrors.ErrInvalidUserID
	}
	if !domain.IsValidCategory(req.Category) {
		return EntryResponse{}, balanceerrors.ErrInvalidCategory
	}
	amount, err := fixedpoint.Parse(req.Amount)
	if err != nil {
		return EntryResponse{}, balanceerrors.ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return EntryResponse{}, balanceerrors.ErrGrantNotPositive
	}

	now := time.Now().UTC()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("grant balance begin tx failed", zap.Error(err))
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  req.Category,
		Amount:    amount,
		Year:      year,
		Action:    ActionGrant,
		CreatedAt: now,
	}

	if err := qtx.Insert(ctx, entry); err != nil {
		s.logger.Error("grant balance persist failed", zap.Error(err))
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("grant balance commit failed", zap.Error(err))
		return EntryResponse{}, err
	}

	if err := s.InvalidateStats(ctx, req.UserID); err != nil {
		s.logger.Warn("invalidate stats cache failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
	}

	s.logger.Info("balance granted",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("category", req.Category),
		zap.String("amount", amount.String()),
	)
	return mapToEntryResponse(*entry), nil
}

func (s *service) GetAll(ctx context.Context, userID string, page, pageSize int) ([]EntryResponse, int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, balanceerrors.ErrInvalidUserID
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	entries, total, err := s.repo.ListByUserPaged(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToEntryListResponse(entries), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EntryResponse{}, balanceerrors.ErrInvalidEntryID
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntryResponse{}, balanceerrors.ErrEntryNotFound
		}
		return EntryResponse{}, err
	}
	return mapToEntryResponse(*entry), nil
}

// Stats aggregates the user's ledger per category. Results are cached in
// Redis; concurrent misses for the same user collapse into one load.
func (s *service) Stats(ctx context.Context, userID string) (CategoryTotals, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, balanceerrors.ErrInvalidUserID
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey(userID)).Result(); err == nil {
			var totals CategoryTotals
			if err := json.Unmarshal([]byte(cached), &totals); err == nil {
				return totals, nil
			}
		}
	}

	v, err, _ := s.sf.Do(statsCacheKey(userID), func() (any, error) {
		entries, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		totals := Aggregate(entries)

		if s.rdb != nil {
			payload, err := json.Marshal(totals)
			if err == nil {
				if err := s.rdb.Set(ctx, statsCacheKey(userID), payload, statsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache stats failed",
						zap.String("user_id", userID),
						zap.Error(err),
					)
				}
			}
		}
		return totals, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(CategoryTotals), nil
}

func (s *service) InvalidateStats(ctx context.Context, userID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, statsCacheKey(userID)).Err()
}

// NewCategoryTotals zero-initializes every category so absent ones still
// report 0.00 totals.
func NewCategoryTotals() CategoryTotals {
	totals := make(CategoryTotals, len(domain.Categories()))
	for _, category := range domain.Categories() {
		totals[category] = CategoryTotal{
			Total: fixedpoint.Zero(),
			Used:  fixedpoint.Zero(),
		}
	}
	return totals
}

// Aggregate folds ledger entries with exact fixed-point addition. Summing
// in Go, not SQL-into-float, keeps totals exact for any entry sequence.
func Aggregate(entries []Entry) CategoryTotals {
	totals := NewCategoryTotals()
	for _, e := range entries {
		ct, ok := totals[e.Category]
		if !ok {
			ct = CategoryTotal{Total: fixedpoint.Zero(), Used: fixedpoint.Zero()}
		}
		if e.Amount.IsNegative() {
			ct.Used = ct.Used.Add(e.Amount.Abs())
		} else {
			ct.Total = ct.Total.Add(e.Amount)
		}
		totals[e.Category] = ct
	}
	return totals
}
