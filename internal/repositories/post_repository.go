package repositories

import "sosmed/internal/models"

// PostRepository defines the interface for post data access. Posts returned by
// the read methods have owner, likes and comments preloaded.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	Delete(id string) error
	AddComment(comment *models.Comment) error
	// Like adds the like and, when n is non-nil, stores n in the same transaction.
	Like(postID, userID string, n *models.Notification) error
	Unlike(postID, userID string) error
	// GetAll returns every post, newest first.
	GetAll() ([]models.Post, error)
	// GetByOwners returns posts owned by any of ownerIDs, newest first.
	GetByOwners(ownerIDs []string) ([]models.Post, error)
	// GetLikedBy returns the posts userID liked, in the order they were liked.
	GetLikedBy(userID string) ([]models.Post, error)
}
