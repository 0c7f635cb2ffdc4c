package repositories

import (
	"fmt"

	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(post).Error; err != nil {
		return translate(err, "failed to create post")
	}
	return nil
}

// GetByID retrieves a single post by its ID from the database.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Scopes(withPostAssociations).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("post with ID %s", id))
	}
	return &post, nil
}

// Delete removes a post together with its likes and comments.
func (r *GORMPostRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Like{}, "post_id = ?", id).Error; err != nil {
			return translate(err, "failed to delete post likes")
		}
		if err := tx.Delete(&models.Comment{}, "post_id = ?", id).Error; err != nil {
			return translate(err, "failed to delete post comments")
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "failed to delete post")
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddComment appends a comment to its post.
func (r *GORMPostRepository) AddComment(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return translate(err, "failed to add comment")
	}
	return nil
}

// Like inserts the like and its notification atomically.
func (r *GORMPostRepository) Like(postID, userID string, n *models.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		like := models.Like{PostID: postID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return translate(err, "failed to like post")
		}
		return createNotification(tx, n)
	})
}

// Unlike removes the like. Removing a missing like is not an error.
func (r *GORMPostRepository) Unlike(postID, userID string) error {
	if err := r.db.Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID).Error; err != nil {
		return translate(err, "failed to unlike post")
	}
	return nil
}

// GetAll retrieves all posts from the database, newest first.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Scopes(withPostAssociations).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, translate(err, "failed to get all posts")
	}
	return posts, nil
}

// GetByOwners retrieves the posts of the given owners, newest first.
func (r *GORMPostRepository) GetByOwners(ownerIDs []string) ([]models.Post, error) {
	posts := []models.Post{}
	if len(ownerIDs) == 0 {
		return posts, nil
	}
	err := r.db.Scopes(withPostAssociations).
		Where("user_id IN ?", ownerIDs).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to get posts by owners")
	}
	return posts, nil
}

// GetLikedBy retrieves the posts liked by userID in like order.
func (r *GORMPostRepository) GetLikedBy(userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Scopes(withPostAssociations).
		Select("posts.*").
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at ASC").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to get liked posts")
	}
	return posts, nil
}
