package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/auth"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
)

// ErrInvalidCredentials hides whether the email or the password was wrong
var ErrInvalidCredentials = errors.New("incorrect email or password")

// ValidationError reports rejected registration input
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s failed %s", e.Field, e.Rule)
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest captures credential input
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse contains the issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthService coordinates registration, credential validation and token issuance
type AuthService struct {
	users      repository.UserRepository
	jwt        *auth.JWTManager
	bcryptCost int
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService
func NewAuthService(users repository.UserRepository, jwtManager *auth.JWTManager, bcryptCost int, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		jwt:        jwtManager,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		logger:     logger.With("component", "auth-service"),
	}
}

// Register validates the input, hashes the password and stores the account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ValidationError{Field: strings.ToLower(verrs[0].Field()), Rule: verrs[0].Tag()}
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login validates credentials and returns a JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
	}, nil
}

// Me returns the account behind a verified token subject
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
