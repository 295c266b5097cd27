package user

import "time"

// User is a registered account. Email is stored lower-case.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
