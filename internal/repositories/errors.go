package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps driver errors onto the package sentinels, keeping msg as context.
func translate(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func byCreation(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// withGraph preloads the followers, following and liked-post sets of a user.
func withGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Followers", byCreation).
		Preload("Following", byCreation).
		Preload("LikedPosts", byCreation)
}

// withPostAssociations preloads owner, likes and comments with their authors.
func withPostAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("User.Followers", byCreation).
		Preload("User.Following", byCreation).
		Preload("User.LikedPosts", byCreation).
		Preload("Likes", byCreation).
		Preload("Comments", byCreation).
		Preload("Comments.User")
}
