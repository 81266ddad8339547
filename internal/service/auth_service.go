package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"moviehub/internal/auth"
	"moviehub/internal/config"
	"moviehub/internal/models"
	"moviehub/internal/repository"
)

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService interface {
	// Register creates the user and their bearer token in one step.
	Register(ctx context.Context, username, password, email string) (*models.User, string, error)
	// IssueToken authenticates the user and returns their token,
	// creating it on first login.
	IssueToken(ctx context.Context, username, password string) (*models.User, string, error)
	// Authenticate resolves a presented bearer token to its user.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	tokenSecret string
	tokenTTL    time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		tokenSecret: cfg.TokenSecret,
		tokenTTL:    cfg.TokenTTL,
	}
}

// Register: registers a new user with the given username, password, and email.
func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, string, error) {
	// Check if user exists
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, "", ErrNameInUse
	}

	// Check if email exists
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique indexes catch the race the pre-checks can miss.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrNameInUse
		}
		return nil, "", err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken authenticates the user and returns the token created at
// registration, or mints one on first login of a provisioned account.
func (s *authService) IssueToken(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// User not found: dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return nil, "", ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	existing, err := s.tokenRepo.FindByUser(ctx, user.ID)
	if err == nil {
		// Replace a token whose signature no longer verifies (expired,
		// or the secret rotated).
		if s.parseToken(existing.Token) == nil {
			return user, existing.Token, nil
		}
		if err := s.tokenRepo.Delete(ctx, existing.Token); err != nil {
			return nil, "", err
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	token, err := s.mintToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate verifies the token signature first, so forgeries are
// rejected without a database round trip, then requires the token row
// to still exist.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	if err := s.parseToken(tokenString); err != nil {
		return nil, ErrInvalidToken
	}

	stored, err := s.tokenRepo.FindByToken(ctx, tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &stored.User, nil
}

func (s *authService) mintToken(ctx context.Context, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokenSecret))
	if err != nil {
		return "", err
	}

	record := &models.AuthToken{Token: signed, UserID: user.ID}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return "", err
	}
	return signed, nil
}

func (s *authService) parseToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.tokenSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
