package repositories

import "sosmed/internal/models"

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	// ListAndMarkRead returns the recipient's notifications as they were before
	// the call, newest first, and marks all of them read.
	ListAndMarkRead(toID string) ([]models.Notification, error)
	DeleteAll(toID string) error
}
