package models

import "time"

// NotificationType is the social action that produced a notification.
type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationLike   NotificationType = "like"
)

// Notification is created as a side effect of a follow or a like.
type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)"`
	FromID    string           `gorm:"type:varchar(36);not null"`
	ToID      string           `gorm:"type:varchar(36);index;not null"`
	Type      NotificationType `gorm:"type:varchar(20);not null"`
	Read      bool             `gorm:"not null;default:false"`
	CreatedAt time.Time

	From *User `gorm:"foreignKey:FromID"`
}

// NotificationSender is the slice of the sender shown next to a notification.
type NotificationSender struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	ProfileImg string `json:"profileImg"`
}

// NotificationView is the client-facing notification.
type NotificationView struct {
	ID        string              `json:"_id"`
	From      *NotificationSender `json:"from"`
	To        string              `json:"to"`
	Type      NotificationType    `json:"type"`
	Read      bool                `json:"read"`
	CreatedAt time.Time           `json:"createdAt"`
}

// View projects n.
func (n *Notification) View() NotificationView {
	v := NotificationView{
		ID:        n.ID,
		To:        n.ToID,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.From != nil {
		v.From = &NotificationSender{ID: n.From.ID, Username: n.From.Username, ProfileImg: n.From.ProfileImg}
	}
	return v
}

// NotificationViews projects a slice of notifications.
func NotificationViews(ns []Notification) []NotificationView {
	out := make([]NotificationView, 0, len(ns))
	for i := range ns {
		out = append(out, ns[i].View())
	}
	return out
}
