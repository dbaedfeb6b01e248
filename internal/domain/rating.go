package domain

import "time"

// Mark bounds.
const (
	MinMark = 1
	MaxMark = 10
)

// Rating is one author's mark for one seller. A later submission by the same
// author replaces the mark.
type Rating struct {
	ID        string    `json:"id"`
	Mark      int       `json:"mark"`
	AuthorID  string    `json:"author_id"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidMark reports whether mark is within [MinMark, MaxMark].
func IsValidMark(mark int) bool {
	return mark >= MinMark && mark <= MaxMark
}

// AggregateRating is the integer-truncated mean of count marks summing to
// sum, or 0 when there are none.
func AggregateRating(sum, count int64) int {
	if count <= 0 {
		return 0
	}
	return int(sum / count)
}
