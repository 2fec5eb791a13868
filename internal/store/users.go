// Package store holds the pgx repositories. Each repository owns the SQL
// for one entity and maps rows to the shared models.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hskaicoach/backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository handles user rows.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. The ID is generated when empty.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Plan == "" {
		user.Plan = models.PlanFree
	}
	if user.TargetLevel == 0 {
		user.TargetLevel = 5
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, name, password_hash, plan, target_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash,
		user.Plan, user.TargetLevel, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, plan, target_level, created_at, updated_at
		FROM users
		WHERE ` + where
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Plan, &user.TargetLevel, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateTargetLevel sets the user's target HSK level.
func (r *UserRepository) UpdateTargetLevel(ctx context.Context, userID string, level int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET target_level = $2, updated_at = now() WHERE id = $1`,
		userID, level)
	if err != nil {
		return fmt.Errorf("update target level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePlan changes the user's subscription tier.
func (r *UserRepository) UpdatePlan(ctx context.Context, userID string, plan models.Plan) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET plan = $2, updated_at = now() WHERE id = $1`,
		userID, plan)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
