package repositories

import (
	"sosmed/internal/models"

	"gorm.io/gorm"
)

// GORMFollowRepository is a GORM implementation of FollowRepository.
type GORMFollowRepository struct {
	db *gorm.DB
}

// NewGORMFollowRepository creates a new instance of GORMFollowRepository.
func NewGORMFollowRepository(db *gorm.DB) *GORMFollowRepository {
	return &GORMFollowRepository{db: db}
}

// Follow inserts the follow edge and its notification atomically.
func (r *GORMFollowRepository) Follow(followerID, followingID string, n *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Create(&edge).Error; err != nil {
			return translate(err, "failed to follow user")
		}
		return createNotification(tx, n)
	})
}

// Unfollow removes the follow edge. Removing a missing edge is not an error.
func (r *GORMFollowRepository) Unfollow(followerID, followingID string) error {
	err := r.db.Delete(&models.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID).Error
	if err != nil {
		return translate(err, "failed to unfollow user")
	}
	return nil
}
