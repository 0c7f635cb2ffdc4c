package handlers

import (
	"sosmed/internal/middleware"
	"sosmed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles posts, comments, likes and feeds.
type PostHandler struct {
	postService *services.PostService
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the post routes behind protect.
func (h *PostHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	postRoutes := router.Group("/posts", protect)
	postRoutes.Get("/all", h.HandleAll)
	postRoutes.Get("/following", h.HandleFollowing)
	postRoutes.Get("/likes/:id", h.HandleLiked)
	postRoutes.Get("/user/:username", h.HandleUserPosts)
	postRoutes.Post("/create", h.HandleCreate)
	postRoutes.Post("/like/:id", h.HandleLike)
	postRoutes.Post("/comment/:id", h.HandleComment)
	postRoutes.Delete("/:id", h.HandleDelete)
}

// HandleAll returns every post, newest first.
func (h *PostHandler) HandleAll(c *fiber.Ctx) error {
	posts, err := h.postService.AllPosts()
	if err != nil {
		return respondError(c, "getAllPosts", err)
	}
	return c.JSON(posts)
}

// HandleFollowing returns the caller's feed.
func (h *PostHandler) HandleFollowing(c *fiber.Ctx) error {
	posts, err := h.postService.FollowingPosts(middleware.UserID(c))
	if err != nil {
		return respondError(c, "getFollowingPosts", err)
	}
	return c.JSON(posts)
}

// HandleLiked returns the posts liked by user :id.
func (h *PostHandler) HandleLiked(c *fiber.Ctx) error {
	posts, err := h.postService.LikedPosts(c.Params("id"))
	if err != nil {
		return respondError(c, "getLikedPosts", err)
	}
	return c.JSON(posts)
}

// HandleUserPosts returns the posts of :username.
func (h *PostHandler) HandleUserPosts(c *fiber.Ctx) error {
	posts, err := h.postService.UserPosts(c.Params("username"))
	if err != nil {
		return respondError(c, "getUserPosts", err)
	}
	return c.JSON(posts)
}

// CreatePostRequest represents the request body for a new post.
type CreatePostRequest struct {
	Text string `json:"text"`
	Img  string `json:"img"`
}

// HandleCreate creates a post owned by the caller.
func (h *PostHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreatePostRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	post, err := h.postService.CreatePost(c.UserContext(), middleware.UserID(c), req.Text, req.Img)
	if err != nil {
		return respondError(c, "createPost", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleDelete deletes post :id when the caller owns it.
func (h *PostHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.postService.DeletePost(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, "deletePost", err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// CommentRequest represents the request body for a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// HandleComment appends a comment to post :id.
func (h *PostHandler) HandleComment(c *fiber.Ctx) error {
	var req CommentRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	post, err := h.postService.CommentOnPost(middleware.UserID(c), c.Params("id"), req.Text)
	if err != nil {
		return respondError(c, "commentOnPost", err)
	}
	return c.JSON(post)
}

// HandleLike toggles the caller's like on post :id.
func (h *PostHandler) HandleLike(c *fiber.Ctx) error {
	action, err := h.postService.LikeOrUnlike(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, "likeUnlikePost", err)
	}
	if action == services.Unliked {
		return c.JSON(fiber.Map{"message": "Post unliked successfully"})
	}
	return c.JSON(fiber.Map{"message": "Post liked successfully"})
}
