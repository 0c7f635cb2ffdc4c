package services

import (
	"context"
	"errors"
	"log"

	"sosmed/internal/models"
	"sosmed/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost      = 10
	minPasswordLength = 6
)

// Both login failures share one message so callers cannot tell which check failed.
const invalidCredentialsMessage = "Invalid username or password"

// AuthService handles registration, login and session resolution.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	limiter  LoginLimiter
}

// NewAuthService creates a new AuthService. limiter may be nil.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, limiter LoginLimiter) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		limiter:  limiter,
	}
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Register validates in, stores the user with a hashed password and returns
// the public user with a fresh session token.
func (s *AuthService) Register(in RegisterInput) (*models.PublicUser, string, error) {
	if !IsValidEmail(in.Email) {
		return nil, "", ValidationError("Invalid email format")
	}

	taken, err := s.exists(s.userRepo.GetByUsername(in.Username))
	if err != nil {
		return nil, "", InternalError("failed to check username", err)
	}
	if taken {
		return nil, "", ConflictError("Username is already taken")
	}

	taken, err = s.exists(s.userRepo.GetByEmail(in.Email))
	if err != nil {
		return nil, "", InternalError("failed to check email", err)
	}
	if taken {
		return nil, "", ConflictError("Email is already taken")
	}

	if len(in.Password) < minPasswordLength {
		return nil, "", ValidationError("Password must be at least 6 characters long")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, "", InternalError("failed to hash password", err)
	}

	user := &models.User{
		FullName: in.FullName,
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ConflictError("Username or email is already taken")
		}
		return nil, "", InternalError("failed to register user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", InternalError("failed to issue token", err)
	}
	public := user.Public()
	return &public, token, nil
}

// Login checks the credentials and returns the public user with a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.PublicUser, string, error) {
	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, username)
		if err != nil {
			log.Printf("Login limiter unavailable for %s: %v", username, err)
		} else if blocked {
			return nil, "", TooManyRequestsError("Too many failed login attempts, try again later")
		}
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", InternalError("failed to load user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.recordFailure(ctx, username)
		return nil, "", &Error{Kind: KindInvalidCredentials, Message: invalidCredentialsMessage}
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			log.Printf("Failed to reset login attempts for %s: %v", username, err)
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", InternalError("failed to issue token", err)
	}
	public := user.Public()
	return &public, token, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, username); err != nil {
		log.Printf("Failed to record login attempt for %s: %v", username, err)
	}
}

// Authenticate resolves a session token to its user. A missing or invalid
// token is Unauthenticated, a vanished user is NotFound, and store failures
// are Internal.
func (s *AuthService) Authenticate(token string) (*models.PublicUser, error) {
	if token == "" {
		return nil, UnauthenticatedError("Unauthorized: No Token Provided")
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, UnauthenticatedError("Unauthorized: Invalid Token")
	}
	return s.CurrentUser(userID)
}

// CurrentUser re-reads the user behind an authenticated request.
func (s *AuthService) CurrentUser(userID string) (*models.PublicUser, error) {
	if userID == "" {
		return nil, UnauthenticatedError("Unauthorized: No user found")
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("User not found")
		}
		return nil, InternalError("failed to load user", err)
	}
	public := user.Public()
	return &public, nil
}

// exists turns a lookup result into a presence flag, treating ErrNotFound as absent.
func (s *AuthService) exists(user *models.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user != nil, nil
}
