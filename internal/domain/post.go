package domain

import "time"

// Post is a published blog entry. Author carries the username by value; a
// later change to the user record does not cascade into published posts.
type Post struct {
	ID        string
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
}
