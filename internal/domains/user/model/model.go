package model

import (
	"servio/shared/constant"
	"servio/shared/model"
	"time"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldRole      = "role"
	FieldStatus    = "status"
	FieldDeletedAt = "deleted_at"
)

type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	FullName  string     `db:"full_name"`
	Phone     string     `db:"phone"`
	Role      string     `db:"role"`
	Status    string     `db:"status"`
	DeletedAt *time.Time `db:"deleted_at"`
	model.Metadata
}

// IsActive reports whether the user may participate in new bookings.
// Soft-deleted users are never active regardless of status.
func (u *User) IsActive() bool {
	return u.Status == constant.UserStatusActive && u.DeletedAt == nil
}
