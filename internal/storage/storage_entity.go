package storage

import (
	"time"

	"github.com/google/uuid"
)

// StorageFile is an uploaded file record. LeaveRequestID is the
// back-reference the proof reconciler manages: at most one leave request
// owns a file at any time.
type StorageFile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(200);not null"`
	FileName string    `gorm:"type:varchar(200)"`
	ExtName  string    `gorm:"type:varchar(20)"`
	Path     string    `gorm:"type:varchar(255);not null"`
	Type     string    `gorm:"type:varchar(30)"`
	Size     string    `gorm:"type:varchar(30)"`

	UserID         *uuid.UUID `gorm:"type:uuid;index:idx_storage_files_user"`
	LeaveRequestID *uuid.UUID `gorm:"type:uuid;index:idx_storage_files_leave_request"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
