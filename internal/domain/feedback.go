package domain

import (
	"sort"
	"time"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// DefaultFeedbackLimit is the number of entries shown on the wall.
const DefaultFeedbackLimit = 10

// Feedback is a rated comment left on the wall.
type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// RecentFeedback orders entries newest first and keeps at most limit of them.
// A non-positive limit uses DefaultFeedbackLimit.
func RecentFeedback(entries []Feedback, limit int) []Feedback {
	if limit <= 0 {
		limit = DefaultFeedbackLimit
	}
	out := make([]Feedback, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
