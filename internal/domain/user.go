package domain

import "time"

// User is an account allowed to log in to the API.
type User struct {
	ID           int64
	Name         string
	PasswordHash []byte
	PasswordSalt []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential returns the login material stored for the user.
func (u *User) Credential() Credential {
	return Credential{Username: u.Name, PasswordHash: u.PasswordHash, Salt: u.PasswordSalt}
}
