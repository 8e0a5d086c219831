package model

import "time"

// User is a registered account. Column names follow the historical schema
// (id_user, username_user, ...) and double as the JSON field names, since
// the API has always serialized rows as-is. The password hash never leaves
// the server.
type User struct {
	ID           int64     `json:"id_user" db:"id_user"`
	Username     string    `json:"username_user" db:"username_user"`
	Email        string    `json:"email_user" db:"email_user"`
	PasswordHash string    `json:"-" db:"password_user"`
	Rights       Role      `json:"rights_user" db:"rights_user"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PublicUser is the shape returned by the register endpoint.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the registration view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
