package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/migrations"
)

// uniqueViolation is the SQLSTATE for duplicate keys
const uniqueViolation = "23505"

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing handle
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// RunMigrations applies all embedded SQL migrations
func (r *PostgresRepository) RunMigrations() error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(r.db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// CreateUser inserts a new account
func (r *PostgresRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (:id, :email, :name, :password_hash, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user by case-insensitive email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SaveProperty inserts a bookmark, keeping the existing row on conflict
func (r *PostgresRepository) SaveProperty(ctx context.Context, saved *model.SavedProperty) error {
	query := `
		INSERT INTO saved_properties (user_id, property_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, property_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, saved.UserID, saved.PropertyID, saved.CreatedAt); err != nil {
		return fmt.Errorf("failed to save property: %w", err)
	}
	return nil
}

// ListSaved returns a user's bookmarks, oldest first
func (r *PostgresRepository) ListSaved(ctx context.Context, userID string) ([]model.SavedProperty, error) {
	saved := []model.SavedProperty{}
	query := `
		SELECT user_id, property_id, created_at
		FROM saved_properties
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &saved, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list saved properties: %w", err)
	}
	return saved, nil
}

// DeleteSaved removes a bookmark
func (r *PostgresRepository) DeleteSaved(ctx context.Context, userID, propertyID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_properties WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete saved property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete saved property: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
