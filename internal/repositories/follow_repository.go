package repositories

import "sosmed/internal/models"

// FollowRepository mutates the social graph.
type FollowRepository interface {
	// Follow adds the edge and, when n is non-nil, stores n in the same transaction.
	Follow(followerID, followingID string, n *models.Notification) error
	Unfollow(followerID, followingID string) error
}
