package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
)

// ErrMissingIDs is returned when a bookmark lacks its user or property id
var ErrMissingIDs = errors.New("user_id and property_id are required")

// SaveService manages user bookmarks
type SaveService struct {
	saved      repository.SavedRepository
	properties *PropertyService
	logger     *slog.Logger
}

// NewSaveService creates a new save service
func NewSaveService(saved repository.SavedRepository, properties *PropertyService, logger *slog.Logger) *SaveService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveService{
		saved:      saved,
		properties: properties,
		logger:     logger.With("component", "save-service"),
	}
}

// Save bookmarks a property. Saving twice keeps the first bookmark.
func (s *SaveService) Save(ctx context.Context, userID, propertyID string) (*model.SavedProperty, error) {
	userID, propertyID = strings.TrimSpace(userID), strings.TrimSpace(propertyID)
	if userID == "" || propertyID == "" {
		return nil, ErrMissingIDs
	}

	sp := &model.SavedProperty{UserID: userID, PropertyID: propertyID, CreatedAt: time.Now().UTC()}
	if err := s.saved.SaveProperty(ctx, sp); err != nil {
		return nil, err
	}
	s.logger.Debug("property saved", "user_id", userID, "property_id", propertyID)
	return sp, nil
}

// List returns a user's bookmarks with listing details where the dataset still has them
func (s *SaveService) List(ctx context.Context, userID string) ([]model.SavedProperty, error) {
	saved, err := s.saved.ListSaved(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	for i := range saved {
		p, err := s.properties.ByID(ctx, saved[i].PropertyID)
		switch {
		case err == nil:
			saved[i].Property = p
		case errors.Is(err, ErrPropertyNotFound):
			s.logger.Debug("saved property no longer in dataset", "property_id", saved[i].PropertyID)
		default:
			return nil, err
		}
	}
	return saved, nil
}

// Remove deletes a bookmark; repository.ErrNotFound if it does not exist
func (s *SaveService) Remove(ctx context.Context, userID, propertyID string) error {
	userID, propertyID = strings.TrimSpace(userID), strings.TrimSpace(propertyID)
	if userID == "" || propertyID == "" {
		return ErrMissingIDs
	}
	return s.saved.DeleteSaved(ctx, userID, propertyID)
}
