package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

// AdminRepository backs the approval gate's non-florist resources
// (venues, organizers), system settings and the commission ledger.
type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ListPendingVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := r.db.SelectContext(ctx, &venues, `
		SELECT id, email, venue_name, status, created_at FROM venues
		WHERE status = $1 ORDER BY created_at ASC
	`, models.AccountStatusPending)
	return venues, err
}

func (r *AdminRepository) ListPendingOrganizers(ctx context.Context) ([]models.Organizer, error) {
	var organizers []models.Organizer
	err := r.db.SelectContext(ctx, &organizers, `
		SELECT id, email, name, status, created_at FROM organizers
		WHERE status = $1 ORDER BY created_at ASC
	`, models.AccountStatusPending)
	return organizers, err
}

func (r *AdminRepository) UpdateVenueStatus(ctx context.Context, id uuid.UUID, status string) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.GetContext(ctx, &venue, `
		UPDATE venues SET status = $2 WHERE id = $1
		RETURNING id, email, venue_name, status, created_at
	`, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &venue, err
}

func (r *AdminRepository) UpdateOrganizerStatus(ctx context.Context, id uuid.UUID, status string) (*models.Organizer, error) {
	var organizer models.Organizer
	err := r.db.GetContext(ctx, &organizer, `
		UPDATE organizers SET status = $2 WHERE id = $1
		RETURNING id, email, name, status, created_at
	`, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &organizer, err
}

// ListCommissions returns the revenue report, newest first.
func (r *AdminRepository) ListCommissions(ctx context.Context, limit, offset int) ([]models.Commission, error) {
	var commissions []models.Commission
	err := r.db.SelectContext(ctx, &commissions, `
		SELECT id, project_id, amount, created_at FROM commissions
		ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	return commissions, err
}

// GetSettings returns the system settings row, creating the default one
// on first access.
func (r *AdminRepository) GetSettings(ctx context.Context, defaultFeeRate float64) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	err := r.db.GetContext(ctx, &settings, `
		SELECT id, platform_fee_rate, updated_at FROM system_settings LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.GetContext(ctx, &settings, `
			INSERT INTO system_settings (platform_fee_rate) VALUES ($1)
			RETURNING id, platform_fee_rate, updated_at
		`, defaultFeeRate)
	}
	if err != nil {
		return nil, fmt.Errorf("admin repository: settings %w", err)
	}
	return &settings, nil
}

func (r *AdminRepository) UpdateSettings(ctx context.Context, platformFeeRate float64) (*models.SystemSettings, error) {
	settings, err := r.GetSettings(ctx, platformFeeRate)
	if err != nil {
		return nil, err
	}
	var updated models.SystemSettings
	err = r.db.GetContext(ctx, &updated, `
		UPDATE system_settings SET platform_fee_rate = $2, updated_at = NOW() WHERE id = $1
		RETURNING id, platform_fee_rate, updated_at
	`, settings.ID, platformFeeRate)
	return &updated, err
}
