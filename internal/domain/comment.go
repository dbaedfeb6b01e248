package domain

import "time"

// Comment length limits.
const (
	MinCommentLength = 3
	MaxCommentLength = 2000
)

// Comment is a visitor's message on a seller profile. New comments start
// pending (Approved=false) until an administrator confirms them.
type Comment struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Approved  bool      `json:"approved"`
	AuthorID  *string   `json:"author_id,omitempty"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAuthoredBy reports whether authorID wrote the comment.
func (c *Comment) IsAuthoredBy(authorID string) bool {
	return c.AuthorID != nil && *c.AuthorID == authorID
}
