package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

const (
	userPrefix      = "user:"
	userEmailPrefix = "user_email:"
	savedPrefix     = "saved:"
)

func userKey(id string) []byte { return []byte(userPrefix + id) }

func userEmailKey(email string) []byte {
	return []byte(userEmailPrefix + strings.ToLower(email))
}

func savedKey(userID, propertyID string) []byte {
	return []byte(savedPrefix + userID + ":" + propertyID)
}

func savedUserPrefix(userID string) []byte {
	return []byte(savedPrefix + userID + ":")
}

// BadgerStore keeps users and bookmarks as JSON documents in an embedded BadgerDB
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog.Logger to badger.Logger
type badgerLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, items ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Warningf(msg string, items ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Infof(msg string, items ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

func (l *badgerLogger) Debugf(msg string, items ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, items...)))
}

// NewBadgerStore opens the store at path, creating the directory if needed.
// inMemory ignores path and keeps everything in RAM.
func NewBadgerStore(path string, inMemory bool, logger *slog.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badger-store")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("create badger dir: %w", err)
		}
		opts = badger.DefaultOptions(path)
	}
	opts.Logger = &badgerLogger{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

// Close closes the database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// CreateUser stores user and its email index in one transaction
func (s *BadgerStore) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(userEmailKey(user.Email))
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(userEmailKey(user.Email), []byte(user.ID))
	})
	if errors.Is(err, badger.ErrConflict) {
		// a concurrent registration won the race for this email
		return ErrEmailTaken
	}
	return err
}

// GetUserByID loads a user
func (s *BadgerStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail resolves the email index and loads the user
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return translate(err)
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(string(id)), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveProperty writes the bookmark unless it already exists
func (s *BadgerStore) SaveProperty(ctx context.Context, saved *model.SavedProperty) error {
	doc := *saved
	doc.Property = nil
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode saved property: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := savedKey(saved.UserID, saved.PropertyID)
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

// ListSaved returns a user's bookmarks, oldest first
func (s *BadgerStore) ListSaved(ctx context.Context, userID string) ([]model.SavedProperty, error) {
	saved := []model.SavedProperty{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = savedUserPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var sp model.SavedProperty
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sp)
			}); err != nil {
				return fmt.Errorf("decode saved property: %w", err)
			}
			saved = append(saved, sp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(saved, func(i, j int) bool {
		return saved[i].CreatedAt.Before(saved[j].CreatedAt)
	})
	return saved, nil
}

// DeleteSaved removes a bookmark; ErrNotFound if it does not exist
func (s *BadgerStore) DeleteSaved(ctx context.Context, userID, propertyID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := savedKey(userID, propertyID)
		if _, err := txn.Get(key); err != nil {
			return translate(err)
		}
		return txn.Delete(key)
	})
}

func getJSON(txn *badger.Txn, key []byte, target any) error {
	item, err := txn.Get(key)
	if err != nil {
		return translate(err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, target)
	})
}

func translate(err error) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}
