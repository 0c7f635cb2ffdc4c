package handlers

import (
	"sosmed/internal/middleware"
	"sosmed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the caller's notifications.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterRoutes registers the notification routes behind protect.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	notificationRoutes := router.Group("/notifications", protect)
	notificationRoutes.Get("/", h.HandleList)
	notificationRoutes.Delete("/", h.HandleDeleteAll)
}

// HandleList returns the caller's notifications and marks them read.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	notifications, err := h.notificationService.List(middleware.UserID(c))
	if err != nil {
		return respondError(c, "getNotifications", err)
	}
	return c.JSON(notifications)
}

// HandleDeleteAll removes all of the caller's notifications.
func (h *NotificationHandler) HandleDeleteAll(c *fiber.Ctx) error {
	if err := h.notificationService.DeleteAll(middleware.UserID(c)); err != nil {
		return respondError(c, "deleteNotifications", err)
	}
	return c.JSON(fiber.Map{"message": "Notifications deleted successfully"})
}
