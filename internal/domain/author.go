package domain

import "time"

// AnonymousAuthor is an unauthenticated visitor identified by a long-lived
// opaque token. At most one author exists per token.
type AnonymousAuthor struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
