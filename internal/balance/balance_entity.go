package balance

import (
	"time"

	"go-leave/internal/shared/fixedpoint"

	"github.com/google/uuid"
)

const (
	ActionGrant    = "GRANT"
	ActionConsume  = "CONSUME"
	ActionReversal = "REVERSAL"
)

// Entry is one immutable row of the balance ledger. Positive amounts are
// grants, negative amounts are consumptions. Entries are never updated or
// deleted; corrections are reversal entries with the opposite sign.
type Entry struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_balance_entries_user"`
	Category string            `gorm:"type:varchar(20);not null"`
	Amount   fixedpoint.Amount `gorm:"type:numeric(10,2);not null"`
	Year     int               `gorm:"type:int;not null"`
	Action   string            `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time
}

// CategoryTotal is the aggregated view for one category: total is the sum
// of non-negative entries, used is the magnitude of negative entries.
type CategoryTotal struct {
	Total fixedpoint.Amount `json:"total"`
	Used  fixedpoint.Amount `json:"used"`
}

// CategoryTotals always carries every category, zero-initialized, so a user
// with no ledger history still reports 0.00 everywhere.
type CategoryTotals map[string]CategoryTotal
