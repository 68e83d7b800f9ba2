package models

import (
	"time"

	"golang.org/x/oauth2"
)

// Session is the bearer credential plus its expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Empty reports whether either field is missing.
func (s Session) Empty() bool {
	return s.Token == "" || s.ExpiresAt.IsZero()
}

// Expired reports whether now is past the expiry instant.
//
// A session expiring exactly at now is still valid.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Remaining returns the time left before expiry, floored at zero.
func (s Session) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// OAuth2Token converts the session into an [oauth2.Token] for use with an [oauth2.Transport].
func (s Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		Expiry:      s.ExpiresAt,
	}
}
