package services

import (
	"context"
	"errors"
	"log"

	"sosmed/internal/models"
	"sosmed/internal/repositories"
)

// LikeAction is what LikeOrUnlike ended up doing.
type LikeAction string

const (
	Liked   LikeAction = "liked"
	Unliked LikeAction = "unliked"
)

// PostService handles posts, comments, likes and feeds.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	images   ImageHost
	events   EventPublisher
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, images ImageHost, events EventPublisher) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		images:   images,
		events:   events,
	}
}

// CreatePost stores a post for actingID. An image is uploaded first; if the
// upload fails nothing is persisted.
func (s *PostService) CreatePost(ctx context.Context, actingID, text, img string) (*models.PostView, error) {
	if _, err := s.loadUser(actingID); err != nil {
		return nil, err
	}
	if text == "" && img == "" {
		return nil, ValidationError("Post must have text or image")
	}

	if img != "" {
		if s.images == nil {
			return nil, InternalError("image host is not configured", nil)
		}
		url, err := s.images.Upload(ctx, img)
		if err != nil {
			return nil, InternalError("failed to upload image", err)
		}
		img = url
	}

	post := &models.Post{UserID: actingID, Text: text, Img: img}
	if err := s.postRepo.Create(post); err != nil {
		return nil, InternalError("failed to create post", err)
	}
	return s.view(post.ID)
}

// DeletePost removes a post owned by actingID. Removing the hosted image is
// best-effort: a failure is logged and the post is deleted anyway.
func (s *PostService) DeletePost(ctx context.Context, actingID, postID string) error {
	post, err := s.loadPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != actingID {
		return ForbiddenError("You are not authorized to delete this post")
	}

	if post.Img != "" && s.images != nil {
		if err := s.images.Destroy(ctx, post.Img); err != nil {
			log.Printf("Warning: Failed to delete image of post %s: %v", post.ID, err)
		}
	}

	if err := s.postRepo.Delete(post.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NotFoundError("Post not found")
		}
		return InternalError("failed to delete post", err)
	}
	return nil
}

// CommentOnPost appends a comment by actingID and returns the updated post.
func (s *PostService) CommentOnPost(actingID, postID, text string) (*models.PostView, error) {
	if text == "" {
		return nil, ValidationError("Text field is required")
	}
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: post.ID, UserID: actingID, Text: text}
	if err := s.postRepo.AddComment(comment); err != nil {
		return nil, InternalError("failed to add comment", err)
	}
	return s.view(post.ID)
}

// LikeOrUnlike toggles actingID's like on a post. A like notifies the post
// owner, including when the owner likes their own post.
func (s *PostService) LikeOrUnlike(actingID, postID string) (LikeAction, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return "", err
	}

	for _, like := range post.Likes {
		if like.UserID == actingID {
			if err := s.postRepo.Unlike(post.ID, actingID); err != nil {
				return "", InternalError("failed to unlike post", err)
			}
			return Unliked, nil
		}
	}

	notification := &models.Notification{
		FromID: actingID,
		ToID:   post.UserID,
		Type:   models.NotificationLike,
	}
	if err := s.postRepo.Like(post.ID, actingID, notification); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return Liked, nil
		}
		return "", InternalError("failed to like post", err)
	}
	publishNotification(s.events, notification)
	return Liked, nil
}

// AllPosts returns every post, newest first.
func (s *PostService) AllPosts() ([]models.PostView, error) {
	posts, err := s.postRepo.GetAll()
	if err != nil {
		return nil, InternalError("failed to get posts", err)
	}
	return models.PostViews(posts), nil
}

// FollowingPosts returns posts of the users actingID follows, newest first.
// Following nobody yields an empty feed.
func (s *PostService) FollowingPosts(actingID string) ([]models.PostView, error) {
	user, err := s.loadUser(actingID)
	if err != nil {
		return nil, err
	}
	following := user.Public().Following
	posts, err := s.postRepo.GetByOwners(following)
	if err != nil {
		return nil, InternalError("failed to get following posts", err)
	}
	return models.PostViews(posts), nil
}

// UserPosts returns the posts of username, newest first.
func (s *PostService) UserPosts(username string) ([]models.PostView, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("failed to load user", err)
	}
	posts, err := s.postRepo.GetByOwners([]string{user.ID})
	if err != nil {
		return nil, InternalError("failed to get user posts", err)
	}
	return models.PostViews(posts), nil
}

// LikedPosts returns the posts userID liked, in the order they were liked.
func (s *PostService) LikedPosts(userID string) ([]models.PostView, error) {
	if _, err := s.loadUser(userID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetLikedBy(userID)
	if err != nil {
		return nil, InternalError("failed to get liked posts", err)
	}
	return models.PostViews(posts), nil
}

func (s *PostService) view(postID string) (*models.PostView, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}
	v := post.View()
	return &v, nil
}

func (s *PostService) loadPost(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("Post not found")
		}
		return nil, InternalError("failed to load post", err)
	}
	return post, nil
}

func (s *PostService) loadUser(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("failed to load user", err)
	}
	return user, nil
}
