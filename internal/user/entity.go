// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID              string    `db:"id"`
	Email           string    `db:"email"`
	PasswordHash    string    `db:"password_hash"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	ProfileImageURL *string   `db:"profile_image_url"`
	Role            string    `db:"role"`
	TokenVersion    int       `db:"token_version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

const (
	RolePoster = "poster"
	RoleAdmin  = "admin"
)
