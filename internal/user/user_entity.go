package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the directory record behind every requester and approver id.
// Leave and balance rows reference users by id only and never embed them.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email    string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Name     string    `gorm:"type:varchar(120);not null"`
	Password string    `gorm:"type:varchar(255);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
