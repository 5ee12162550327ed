package balance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/shared/fixedpoint"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceRepository struct {
	withTxFn          func(tx *sql.Tx) balance.Repository
	insertFn          func(ctx context.Context, e *balance.Entry) error
	findByIDFn        func(ctx context.Context, id string) (*balance.Entry, error)
	listByUserFn      func(ctx context.Context, userID string) ([]balance.Entry, error)
	listByUserPagedFn func(ctx context.Context, userID string, limit, offset int) ([]balance.Entry, int64, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) Insert(ctx context.Context, e *balance.Entry) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, e)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByID(ctx context.Context, id string) (*balance.Entry, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) ListByUser(ctx context.Context, userID string) ([]balance.Entry, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) ListByUserPaged(ctx context.Context, userID string, limit, offset int) ([]balance.Entry, int64, error) {
	if f.listByUserPagedFn != nil {
		return f.listByUserPagedFn(ctx, userID, limit, offset)
	}
	return nil, 0, nil
}

type balanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeBalanceRepository
	service balance.Service
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBalanceRepository{}
	svc := balance.NewService(db, repo, nil)

	return &balanceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
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

func entry(userID uuid.UUID, category, amount string) balance.Entry {
	action := balance.ActionGrant
	a := fixedpoint.MustParse(amount)
	if a.IsNegative() {
		action = balance.ActionConsume
	}
	return balance.Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  category,
		Amount:    a,
		Year:      2026,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
}

func TestBalanceService_Grant(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		var inserted *balance.Entry
		deps.repo.insertFn = func(ctx context.Context, e *balance.Entry) error {
			inserted = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Grant(ctx, balance.GrantBalanceRequest{
			UserID:   userID.String(),
			Category: domain.CategoryAnnual,
			Amount:   "12.00",
			Year:     2026,
		})

		assert.NoError(t, err)
		assert.NotNil(t, inserted)
		assert.Equal(t, balance.ActionGrant, inserted.Action)
		assert.Equal(t, "12.00", inserted.Amount.String())
		assert.Equal(t, "12.00", resp.Amount)
		assert.Equal(t, 2026, resp.Year)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects non positive amount", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Grant(ctx, balance.GrantBalanceRequest{
			UserID:   userID.String(),
			Category: domain.CategoryAnnual,
			Amount:   "-3.00",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrGrantNotPositive)

		_, err = deps.service.Grant(ctx, balance.GrantBalanceRequest{
			UserID:   userID.String(),
			Category: domain.CategoryAnnual,
			Amount:   "0",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrGrantNotPositive)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Grant(ctx, balance.GrantBalanceRequest{
			UserID:   userID.String(),
			Category: "SABBATICAL",
			Amount:   "5.00",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidCategory)
	})

	t.Run("rejects invalid user id", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Grant(ctx, balance.GrantBalanceRequest{
			UserID:   "not-a-uuid",
			Category: domain.CategoryAnnual,
			Amount:   "5.00",
		})
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)
	})
}

func TestAggregate(t *testing.T) {
	userID := uuid.New()

	t.Run("exact totals from mixed entries", func(t *testing.T) {
		totals := balance.Aggregate([]balance.Entry{
			entry(userID, domain.CategoryAnnual, "16.00"),
			entry(userID, domain.CategoryAnnual, "-8.00"),
			entry(userID, domain.CategoryAnnual, "-4.00"),
			entry(userID, domain.CategorySick, "10.00"),
		})

		assert.Equal(t, "16.00", totals[domain.CategoryAnnual].Total.String())
		assert.Equal(t, "12.00", totals[domain.CategoryAnnual].Used.String())
		assert.Equal(t, "10.00", totals[domain.CategorySick].Total.String())
		assert.Equal(t, "0.00", totals[domain.CategorySick].Used.String())
	})

	t.Run("fractional entries stay exact", func(t *testing.T) {
		entries := make([]balance.Entry, 0, 100)
		for i := 0; i < 100; i++ {
			entries = append(entries, entry(userID, domain.CategoryCompensate, "0.10"))
		}
		totals := balance.Aggregate(entries)
		assert.Equal(t, "10.00", totals[domain.CategoryCompensate].Total.String())
	})

	t.Run("absent categories report zero", func(t *testing.T) {
		totals := balance.Aggregate(nil)
		for _, category := range domain.Categories() {
			assert.Equal(t, "0.00", totals[category].Total.String(), category)
			assert.Equal(t, "0.00", totals[category].Used.String(), category)
		}
	})
}

func TestBalanceService_Stats(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("aggregates from repository on cache miss", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeBalanceRepository{
			listByUserFn: func(ctx context.Context, uid string) ([]balance.Entry, error) {
				assert.Equal(t, userID.String(), uid)
				return []balance.Entry{
					entry(userID, domain.CategoryAnnual, "16.00"),
					entry(userID, domain.CategoryAnnual, "-8.00"),
				}, nil
			},
		}
		svc := balance.NewService(db, repo, rdb)

		key := "leave:stats:" + userID.String()
		redisMock.ExpectGet(key).RedisNil()
		redisMock.Regexp().ExpectSet(key, `.*`, 5*time.Minute).SetVal("OK")

		totals, err := svc.Stats(ctx, userID.String())
		assert.NoError(t, err)
		assert.Equal(t, "16.00", totals[domain.CategoryAnnual].Total.String())
		assert.Equal(t, "8.00", totals[domain.CategoryAnnual].Used.String())
	})

	t.Run("serves cached stats without touching repository", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		cached := balance.NewCategoryTotals()
		ct := cached[domain.CategorySick]
		ct.Total = fixedpoint.MustParse("5.00")
		cached[domain.CategorySick] = ct
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		rdb, redisMock := redismock.NewClientMock()
		repoCalled := false
		repo := &fakeBalanceRepository{
			listByUserFn: func(ctx context.Context, uid string) ([]balance.Entry, error) {
				repoCalled = true
				return nil, nil
			},
		}
		svc := balance.NewService(db, repo, rdb)

		redisMock.ExpectGet("leave:stats:" + userID.String()).SetVal(string(payload))

		totals, err := svc.Stats(ctx, userID.String())
		assert.NoError(t, err)
		assert.False(t, repoCalled)
		assert.Equal(t, "5.00", totals[domain.CategorySick].Total.String())
	})

	t.Run("rejects invalid user id", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Stats(ctx, "nope")
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidUserID)
	})
}

func TestBalanceService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, balanceerrors.ErrEntryNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "xyz")
		assert.ErrorIs(t, err, balanceerrors.ErrInvalidEntryID)
	})
}
