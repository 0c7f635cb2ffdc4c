package services

import (
	"context"
	"errors"
	"log"

	"sosmed/internal/models"
	"sosmed/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	suggestionSampleSize = 10
	suggestionLimit      = 4
)

// FollowAction is what FollowOrUnfollow ended up doing.
type FollowAction string

const (
	Followed   FollowAction = "followed"
	Unfollowed FollowAction = "unfollowed"
)

// UserService handles profiles and the social graph.
type UserService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	images     ImageHost
	events     EventPublisher
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, images ImageHost, events EventPublisher) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		images:     images,
		events:     events,
	}
}

// GetProfile returns the public profile of username.
func (s *UserService) GetProfile(username string) (*models.PublicUser, error) {
	user, err := s.loadByUsername(username)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// FollowOrUnfollow toggles whether actingID follows targetID. Following emits
// a follow notification; unfollowing emits nothing.
func (s *UserService) FollowOrUnfollow(actingID, targetID string) (FollowAction, error) {
	if actingID == targetID {
		return "", ValidationError("You can't follow/unfollow yourself")
	}

	target, err := s.load(targetID)
	if err != nil {
		return "", err
	}
	current, err := s.load(actingID)
	if err != nil {
		return "", err
	}

	if current.IsFollowing(target.ID) {
		if err := s.followRepo.Unfollow(current.ID, target.ID); err != nil {
			return "", InternalError("failed to unfollow user", err)
		}
		return Unfollowed, nil
	}

	notification := &models.Notification{
		FromID: current.ID,
		ToID:   target.ID,
		Type:   models.NotificationFollow,
	}
	if err := s.followRepo.Follow(current.ID, target.ID, notification); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// A concurrent request already created the edge.
			return Followed, nil
		}
		return "", InternalError("failed to follow user", err)
	}
	publishNotification(s.events, notification)
	return Followed, nil
}

// Suggested samples other users the caller does not follow yet. The result
// holds at most four users and may hold fewer.
func (s *UserService) Suggested(actingID string) ([]models.PublicUser, error) {
	current, err := s.load(actingID)
	if err != nil {
		return nil, err
	}

	sample, err := s.userRepo.Sample(actingID, suggestionSampleSize)
	if err != nil {
		return nil, InternalError("failed to sample users", err)
	}

	suggested := make([]models.PublicUser, 0, suggestionLimit)
	for i := range sample {
		if current.IsFollowing(sample[i].ID) {
			continue
		}
		suggested = append(suggested, sample[i].Public())
		if len(suggested) == suggestionLimit {
			break
		}
	}
	return suggested, nil
}

// UpdateProfileInput carries the optional profile changes. Empty fields keep
// their current value.
type UpdateProfileInput struct {
	FullName        string
	Email           string
	Username        string
	CurrentPassword string
	NewPassword     string
	Bio             string
	Link            string
	ProfileImg      string
	CoverImg        string
}

// UpdateProfile applies in to the caller's account.
func (s *UserService) UpdateProfile(ctx context.Context, actingID string, in UpdateProfileInput) (*models.PublicUser, error) {
	user, err := s.load(actingID)
	if err != nil {
		return nil, err
	}

	if (in.NewPassword == "") != (in.CurrentPassword == "") {
		return nil, ValidationError("Please provide both current password and new password")
	}
	if in.Email != "" && !IsValidEmail(in.Email) {
		return nil, ValidationError("Invalid email format")
	}
	if in.CurrentPassword != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
			return nil, ValidationError("Current password is incorrect")
		}
		if len(in.NewPassword) < minPasswordLength {
			return nil, ValidationError("Password must be at least 6 characters long")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), passwordCost)
		if err != nil {
			return nil, InternalError("failed to hash password", err)
		}
		user.Password = string(hashed)
	}

	// New images are uploaded before the update; the old ones are removed
	// only once the update is stored.
	var uploaded, replaced []string
	if in.ProfileImg != "" {
		url, err := s.upload(ctx, in.ProfileImg)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, url)
		replaced = append(replaced, user.ProfileImg)
		user.ProfileImg = url
	}
	if in.CoverImg != "" {
		url, err := s.upload(ctx, in.CoverImg)
		if err != nil {
			s.destroyAll(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, url)
		replaced = append(replaced, user.CoverImg)
		user.CoverImg = url
	}

	user.FullName = orDefault(in.FullName, user.FullName)
	user.Email = orDefault(in.Email, user.Email)
	user.Username = orDefault(in.Username, user.Username)
	user.Bio = orDefault(in.Bio, user.Bio)
	user.Link = orDefault(in.Link, user.Link)

	if err := s.userRepo.Update(user); err != nil {
		s.destroyAll(ctx, uploaded)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ConflictError("Username or email is already taken")
		}
		return nil, InternalError("failed to update user", err)
	}
	s.destroyAll(ctx, replaced)

	public := user.Public()
	return &public, nil
}

func (s *UserService) upload(ctx context.Context, image string) (string, error) {
	if s.images == nil {
		return "", InternalError("image host is not configured", nil)
	}
	url, err := s.images.Upload(ctx, image)
	if err != nil {
		return "", InternalError("failed to upload image", err)
	}
	return url, nil
}

// destroyAll removes urls from the image host. Failures are logged.
func (s *UserService) destroyAll(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" || s.images == nil {
			continue
		}
		if err := s.images.Destroy(ctx, url); err != nil {
			log.Printf("Warning: Failed to delete image %s: %v", url, err)
		}
	}
}

func (s *UserService) load(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("failed to load user", err)
	}
	return user, nil
}

func (s *UserService) loadByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("failed to load user", err)
	}
	return user, nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
