package handlers

import (
	"sosmed/internal/middleware"
	"sosmed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profiles and the follow graph.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes behind protect.
func (h *UserHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	userRoutes := router.Group("/users", protect)
	userRoutes.Get("/profile/:username", h.HandleGetProfile)
	userRoutes.Get("/suggested", h.HandleSuggested)
	userRoutes.Post("/follow/:id", h.HandleFollow)
	userRoutes.Post("/update", h.HandleUpdate)
}

// HandleGetProfile returns the public profile of :username.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.Params("username"))
	if err != nil {
		return respondError(c, "getUserProfile", err)
	}
	return c.JSON(user)
}

// HandleSuggested returns up to four users the caller does not follow.
func (h *UserHandler) HandleSuggested(c *fiber.Ctx) error {
	users, err := h.userService.Suggested(middleware.UserID(c))
	if err != nil {
		return respondError(c, "getSuggestedUsers", err)
	}
	return c.JSON(users)
}

// HandleFollow toggles following :id.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	action, err := h.userService.FollowOrUnfollow(middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, "followUnfollowUser", err)
	}
	if action == services.Unfollowed {
		return c.JSON(fiber.Map{"message": "User unfollowed successfully"})
	}
	return c.JSON(fiber.Map{"message": "User followed successfully"})
}

// UpdateRequest represents the request body for a profile update.
type UpdateRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email" validate:"omitempty,simpleemail"`
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	Bio             string `json:"bio"`
	Link            string `json:"link"`
	ProfileImg      string `json:"profileImg"`
	CoverImg        string `json:"coverImg"`
}

// HandleUpdate applies a profile update for the caller.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.UserID(c), services.UpdateProfileInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Username:        req.Username,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		Bio:             req.Bio,
		Link:            req.Link,
		ProfileImg:      req.ProfileImg,
		CoverImg:        req.CoverImg,
	})
	if err != nil {
		return respondError(c, "updateUser", err)
	}
	return c.JSON(user)
}
