// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) CanSell() bool {
	return u.Role == RoleCreator || u.Role == RoleAdmin
}

const (
	RoleUser    = "USER"
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}
