package services_test

import (
	"context"
	"fmt"
	"testing"

	"sosmed/internal/database"
	"sosmed/internal/models"
	"sosmed/internal/repositories"
	"sosmed/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockImageHost is a mock implementation of services.ImageHost
type MockImageHost struct {
	mock.Mock
}

func (m *MockImageHost) Upload(ctx context.Context, image string) (string, error) {
	args := m.Called(image)
	return args.String(0), args.Error(1)
}

func (m *MockImageHost) Destroy(ctx context.Context, imageURL string) error {
	return m.Called(imageURL).Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	return m.Called(exchange, routingKey, body).Error(0)
}

// fixture wires real GORM repositories on a private in-memory sqlite database.
type fixture struct {
	users         *repositories.GORMUserRepository
	follows       *repositories.GORMFollowRepository
	posts         *repositories.GORMPostRepository
	notifications *repositories.GORMNotificationRepository
	images        *MockImageHost
	events        *MockEventPublisher

	userService         *services.UserService
	postService         *services.PostService
	notificationService *services.NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	f := &fixture{
		users:         repositories.NewGORMUserRepository(db),
		follows:       repositories.NewGORMFollowRepository(db),
		posts:         repositories.NewGORMPostRepository(db),
		notifications: repositories.NewGORMNotificationRepository(db),
		images:        new(MockImageHost),
		events:        new(MockEventPublisher),
	}
	f.userService = services.NewUserService(f.users, f.follows, f.images, f.events)
	f.postService = services.NewPostService(f.posts, f.users, f.images, f.events)
	f.notificationService = services.NewNotificationService(f.notifications)
	return f
}

func (f *fixture) createUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Password: string(hashed),
	}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixture) reload(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := f.users.GetByID(id)
	require.NoError(t, err)
	return u
}
