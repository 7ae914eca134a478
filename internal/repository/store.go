package repository

import (
	"context"
	"errors"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

var (
	// ErrNotFound is returned when a document does not exist
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository persists accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// SavedRepository persists per-user property bookmarks
type SavedRepository interface {
	// SaveProperty is idempotent; saving twice keeps the first timestamp
	SaveProperty(ctx context.Context, saved *model.SavedProperty) error
	ListSaved(ctx context.Context, userID string) ([]model.SavedProperty, error)
	DeleteSaved(ctx context.Context, userID, propertyID string) error
}

// Store is the document store behind auth and bookmarks
type Store interface {
	UserRepository
	SavedRepository
	Close() error
}
