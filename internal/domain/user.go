package domain

import "time"

// User represents a registered account. Usernames are unique and
// case-sensitive; the password survives only as a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}
