package repositories

import (
	"fmt"

	"sosmed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(user).Error; err != nil {
		return translate(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.first("id = ?", id, fmt.Sprintf("user with ID %s", id))
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username = ?", username, fmt.Sprintf("user with username %s", username))
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", email, fmt.Sprintf("user with email %s", email))
}

func (r *GORMUserRepository) first(query string, arg interface{}, what string) (*models.User, error) {
	var user models.User
	if err := r.db.Scopes(withGraph).First(&user, query, arg).Error; err != nil {
		return nil, translate(err, what)
	}
	return &user, nil
}

// Update saves the scalar fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Omit(clause.Associations).Save(user)
	if res.Error != nil {
		return translate(res.Error, "failed to update user")
	}
	return nil
}

// Sample returns up to n random users, never including excludeID.
func (r *GORMUserRepository) Sample(excludeID string, n int) ([]models.User, error) {
	var users []models.User
	err := r.db.Scopes(withGraph).
		Where("id <> ?", excludeID).
		Order("RANDOM()").
		Limit(n).
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "failed to sample users")
	}
	return users, nil
}
