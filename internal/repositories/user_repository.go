package repositories

import "sosmed/internal/models"

// UserRepository defines the interface for user data access. Every returned
// user has its Followers, Following and LikedPosts sets loaded.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	// Sample returns up to n users other than excludeID, chosen at random.
	Sample(excludeID string, n int) ([]models.User, error)
}
