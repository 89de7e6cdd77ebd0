package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, handle_name, role, points, total_pledged_amount, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var created models.User
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO users (email, password_hash, handle_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, strings.ToLower(user.Email), user.PasswordHash, user.HandleName, user.Role)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("user repository: create %w", err)
	}
	return &created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &user, err
}
