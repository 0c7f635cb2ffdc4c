package services

import (
	"sosmed/internal/models"
	"sosmed/internal/repositories"
)

// NotificationService reads and clears a user's notifications.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns the caller's notifications and marks them read. The returned
// values reflect the state before marking.
func (s *NotificationService) List(actingID string) ([]models.NotificationView, error) {
	notifications, err := s.repo.ListAndMarkRead(actingID)
	if err != nil {
		return nil, InternalError("failed to get notifications", err)
	}
	return models.NotificationViews(notifications), nil
}

// DeleteAll removes every notification addressed to the caller.
func (s *NotificationService) DeleteAll(actingID string) error {
	if err := s.repo.DeleteAll(actingID); err != nil {
		return InternalError("failed to delete notifications", err)
	}
	return nil
}
