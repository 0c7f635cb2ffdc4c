package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"

	"sosmed/internal/models"
	"sosmed/pkg/rabbitmq"
)

// ImageHost stores images outside the database.
type ImageHost interface {
	// Upload stores image (a data URI or remote URL) and returns its secure URL.
	Upload(ctx context.Context, image string) (string, error)
	// Destroy removes the image previously returned by Upload.
	Destroy(ctx context.Context, imageURL string) error
}

// EventPublisher publishes a message to a broker exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// LoginLimiter tracks failed logins per username.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NotificationEvent is the body of a published notification event.
type NotificationEvent struct {
	ID   string                  `json:"id"`
	From string                  `json:"from"`
	To   string                  `json:"to"`
	Type models.NotificationType `json:"type"`
}

// publishNotification announces n. Failures are logged and never returned.
func publishNotification(pub EventPublisher, n *models.Notification) {
	if pub == nil {
		return
	}
	body, err := json.Marshal(NotificationEvent{ID: n.ID, From: n.FromID, To: n.ToID, Type: n.Type})
	if err != nil {
		log.Printf("Failed to marshal notification event %s: %v", n.ID, err)
		return
	}
	if err := pub.Publish(rabbitmq.NotificationExchange, rabbitmq.NotificationRoutingKey(string(n.Type)), body); err != nil {
		log.Printf("Warning: Failed to publish notification event %s: %v", n.ID, err)
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email looks like local@domain.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
