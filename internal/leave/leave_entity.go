package leave

import (
	"time"

	"go-leave/internal/shared/fixedpoint"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

// IsTerminalStatus reports whether a status has no outgoing transitions.
// Everything except PENDING is terminal.
func IsTerminalStatus(status string) bool {
	return status != StatusPending
}

// LeaveRequest is one employee application for time off. Requester and
// approver are opaque user ids; the row never embeds user records.
// DecidedAt is set exactly when the status leaves PENDING.
type LeaveRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_requester"`
	ApproverID  *uuid.UUID `gorm:"type:uuid"`

	Category  string            `gorm:"type:varchar(20);not null"`
	Amount    fixedpoint.Amount `gorm:"type:numeric(10,2);not null"`
	StartDate time.Time         `gorm:"not null;index:idx_leave_requests_dates"`
	EndDate   time.Time         `gorm:"not null;index:idx_leave_requests_dates"`
	Reason    string            `gorm:"type:text;not null"`
	Comment   *string           `gorm:"type:text"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
