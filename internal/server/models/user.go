package models

import "time"

// User is an identity record. PasswordHash holds the bcrypt hash of the
// password and is never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
