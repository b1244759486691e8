package models

// FeedbackState is the user's reaction to a catalog item.
type FeedbackState string

const (
	FeedbackNone     FeedbackState = "NONE"
	FeedbackLiked    FeedbackState = "LIKED"
	FeedbackDisliked FeedbackState = "DISLIKED"
)

// ItemFeedback couples the user's reaction with the catalog-owned aggregate
// counters, cached so re-renders reflect a transition without a re-fetch.
type ItemFeedback struct {
	State         FeedbackState `json:"state"`
	TotalLikes    int           `json:"totalLikes"`
	TotalDislikes int           `json:"totalDislikes"`
}
