package models

import "time"

// AccessToken is a row of the access_tokens table.
type AccessToken struct {
	TokenID   string    `db:"token_id"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
