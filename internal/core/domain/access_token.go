package domain

import "time"

// AccessToken is the server-side record behind a bearer token. The token is
// valid only while this record exists; logging out deletes it.
type AccessToken struct {
	TokenID   string    `json:"token_id"` // JWT "jti"
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the token has expired
func (t *AccessToken) IsExpired() bool {
	return t.ExpiresAt.Before(time.Now())
}
