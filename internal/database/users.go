package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

var (
	// ErrUserNotFound is returned when no row matches
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the email or username is taken
	ErrUserExists = errors.New("user already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint hit
const uniqueViolation = "23505"

// Querier is the subset of pgxpool.Pool the repository uses
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository stores accounts in mvp_users
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a repository on the pool
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// NewUserRepositoryWith creates a repository on any Querier
func NewUserRepositoryWith(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

// ExistsByEmailOrUsername reports whether either identifier is taken
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	start := time.Now()

	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM mvp_users WHERE email = $1 OR username = $2)`,
		email, username,
	).Scan(&exists)
	metrics.RecordDatabaseOperation("user_exists", metrics.StatusLabel(err), time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	return exists, nil
}

// CreateUser inserts user and fills its id and timestamps
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	start := time.Now()

	if user.Interests == nil {
		user.Interests = []string{}
	}

	query := `
		INSERT INTO mvp_users (email, username, password, interests)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Interests,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	metrics.RecordDatabaseOperation("create_user", metrics.StatusLabel(err), time.Since(start).Seconds())

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByLogin finds a user by username or email
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	start := time.Now()

	var user models.User
	query := `
		SELECT id, email, username, password, interests, created_at, updated_at
		FROM mvp_users
		WHERE username = $1 OR email = $1
	`

	err := r.q.QueryRow(ctx, query, login).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash,
		&user.Interests, &user.CreatedAt, &user.UpdatedAt,
	)
	metrics.RecordDatabaseOperation("get_user", metrics.StatusLabel(err), time.Since(start).Seconds())

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateInterests replaces the interests of user id
func (r *UserRepository) UpdateInterests(ctx context.Context, id int64, interests []string) error {
	start := time.Now()

	if interests == nil {
		interests = []string{}
	}

	tag, err := r.q.Exec(ctx,
		`UPDATE mvp_users SET interests = $2, updated_at = NOW() WHERE id = $1`,
		id, interests,
	)
	metrics.RecordDatabaseOperation("update_interests", metrics.StatusLabel(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to update interests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
