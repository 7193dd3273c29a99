package store

import "time"

// Bookmark is the persisted row shape. Owner is always assigned server-side
// from the authenticated session, never taken from client input.
type Bookmark struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
