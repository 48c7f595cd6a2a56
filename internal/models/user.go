package models

import (
	"time"

	"github.com/google/uuid"
)

// Role separates customers from repair masters (staff).
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleMaster   Role = "MASTER"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleMaster
}

// User represents an account in the system. Customers log in by phone number,
// masters by username; the username stays the canonical unique login key.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PhoneNumber  *string    `db:"phone_number" json:"phone_number,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"` // Не отдаем хеш пароля
	Role         Role       `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	IsStaff      bool       `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"` // NULL until first login
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
