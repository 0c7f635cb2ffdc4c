package repositories

import (
	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

// ListAndMarkRead fetches and marks in one transaction.
func (r *GORMNotificationRepository) ListAndMarkRead(toID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("From").
			Where("to_id = ?", toID).
			Order("created_at DESC").
			Find(&notifications).Error
		if err != nil {
			return translate(err, "failed to list notifications")
		}
		if err := tx.Model(&models.Notification{}).Where("to_id = ?", toID).Update("read", true).Error; err != nil {
			return translate(err, "failed to mark notifications read")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteAll removes every notification addressed to toID.
func (r *GORMNotificationRepository) DeleteAll(toID string) error {
	if err := r.db.Delete(&models.Notification{}, "to_id = ?", toID).Error; err != nil {
		return translate(err, "failed to delete notifications")
	}
	return nil
}

func createNotification(tx *gorm.DB, n *models.Notification) error {
	if n == nil {
		return nil
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if err := tx.Omit(clause.Associations).Create(n).Error; err != nil {
		return translate(err, "failed to create notification")
	}
	return nil
}
