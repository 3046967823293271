package domain

import "time"

type User struct {
	ID             string
	Username       string
	Email          string
	ProfilePicture string
	PasswordHash   string // argon2id encoded, never serialized or logged
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
