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

type FloristRepository struct {
	db *sqlx.DB
}

func NewFloristRepository(db *sqlx.DB) *FloristRepository {
	return &FloristRepository{db: db}
}

const floristColumns = `id, email, password_hash, shop_name, platform_name, status, balance, custom_fee_rate, created_at, updated_at`

// Create registers a florist in PENDING status; an admin approval makes
// the account visible and offerable.
func (r *FloristRepository) Create(ctx context.Context, florist *models.Florist) (*models.Florist, error) {
	var created models.Florist
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO florists (email, password_hash, shop_name, platform_name, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+floristColumns+`
	`, strings.ToLower(florist.Email), florist.PasswordHash, florist.ShopName, florist.PlatformName, models.AccountStatusPending)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("florist repository: create %w", err)
	}
	return &created, nil
}

func (r *FloristRepository) GetByEmail(ctx context.Context, email string) (*models.Florist, error) {
	var florist models.Florist
	err := r.db.GetContext(ctx, &florist, `SELECT `+floristColumns+` FROM florists WHERE email = $1`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &florist, err
}

func (r *FloristRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Florist, error) {
	var florist models.Florist
	err := r.db.GetContext(ctx, &florist, `SELECT `+floristColumns+` FROM florists WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &florist, err
}

// UpdateStatus sets the review status of a florist account.
func (r *FloristRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Florist, error) {
	var florist models.Florist
	err := r.db.GetContext(ctx, &florist, `
		UPDATE florists SET status = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+floristColumns+`
	`, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &florist, err
}

// UpdateFeeRate sets or clears the per-florist commission override.
func (r *FloristRepository) UpdateFeeRate(ctx context.Context, id uuid.UUID, rate *float64) (*models.Florist, error) {
	var florist models.Florist
	err := r.db.GetContext(ctx, &florist, `
		UPDATE florists SET custom_fee_rate = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+floristColumns+`
	`, id, rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return &florist, err
}

// ListApproved returns florists visible to planners.
func (r *FloristRepository) ListApproved(ctx context.Context) ([]models.Florist, error) {
	var florists []models.Florist
	err := r.db.SelectContext(ctx, &florists, `
		SELECT `+floristColumns+` FROM florists WHERE status = $1 ORDER BY created_at DESC
	`, models.AccountStatusApproved)
	return florists, err
}

func (r *FloristRepository) ListPending(ctx context.Context) ([]models.Florist, error) {
	var florists []models.Florist
	err := r.db.SelectContext(ctx, &florists, `
		SELECT `+floristColumns+` FROM florists WHERE status = $1 ORDER BY created_at ASC
	`, models.AccountStatusPending)
	return florists, err
}

// ListAll returns every florist, for the admin fee-override screen.
func (r *FloristRepository) ListAll(ctx context.Context) ([]models.Florist, error) {
	var florists []models.Florist
	err := r.db.SelectContext(ctx, &florists, `
		SELECT `+floristColumns+` FROM florists ORDER BY platform_name ASC
	`)
	return florists, err
}
