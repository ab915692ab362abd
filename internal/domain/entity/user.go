package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Canonical normalizes a username or email for storage and lookup.
// Every read and write path goes through this, so case or stray
// whitespace can never split one account into two.
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Sanitized returns a copy safe to hand to external callers: the
// credential hash is stripped.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	return &c
}
