package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flastal/flastal-backend/internal/models"
)

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, project_id, florist_id, status, created_at, responded_at`

// Create files an offer from a project's planner to a florist. The
// unique index on (project_id, florist_id) makes re-offering a clean
// conflict instead of a duplicate row.
func (r *OfferRepository) Create(ctx context.Context, projectID, floristID, plannerID uuid.UUID) (*models.Offer, error) {
	var ownerID uuid.UUID
	err := r.db.GetContext(ctx, &ownerID, `SELECT planner_id FROM projects WHERE id = $1`, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("offer repository: load project %w", err)
	}
	if ownerID != plannerID {
		return nil, ErrNotOwner
	}

	var offer models.Offer
	err = r.db.GetContext(ctx, &offer, `
		INSERT INTO offers (project_id, florist_id, status)
		VALUES ($1, $2, $3)
		RETURNING `+offerColumns+`
	`, projectID, floristID, models.OfferStatusPending)
	if isUniqueViolation(err) {
		return nil, ErrOfferExists
	}
	if err != nil {
		return nil, fmt.Errorf("offer repository: insert %w", err)
	}
	return &offer, nil
}

// RespondResult carries the updated offer plus the context the service
// needs for post-commit notifications and the chat channel.
type RespondResult struct {
	Offer      models.Offer
	PlannerID  uuid.UUID
	ChatRoomID *uuid.UUID
}

// Respond answers a PENDING offer. Acceptance also creates the private
// chat room row in the same transaction; the partial unique index on
// accepted offers guarantees a project is never bound to two florists.
func (r *OfferRepository) Respond(ctx context.Context, offerID, floristID uuid.UUID, accept bool) (*RespondResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var offer models.Offer
	err = tx.GetContext(ctx, &offer, `SELECT `+offerColumns+` FROM offers WHERE id = $1 FOR UPDATE`, offerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("offer repository: lock offer %w", err)
	}
	if offer.FloristID != floristID {
		return nil, ErrNotOwner
	}
	if offer.Status != models.OfferStatusPending {
		return nil, ErrOfferAlreadyAnswered
	}

	newStatus := models.OfferStatusRejected
	if accept {
		newStatus = models.OfferStatusAccepted
	}

	now := time.Now()
	err = tx.GetContext(ctx, &offer, `
		UPDATE offers SET status = $2, responded_at = $3 WHERE id = $1
		RETURNING `+offerColumns+`
	`, offerID, newStatus, now)
	if isUniqueViolation(err) {
		return nil, ErrProjectAlreadyBound
	}
	if err != nil {
		return nil, fmt.Errorf("offer repository: update %w", err)
	}

	result := &RespondResult{Offer: offer}
	if accept {
		var roomID uuid.UUID
		err = tx.GetContext(ctx, &roomID, `
			INSERT INTO chat_rooms (offer_id) VALUES ($1) RETURNING id
		`, offerID)
		if err != nil {
			return nil, fmt.Errorf("offer repository: create chat room %w", err)
		}
		result.ChatRoomID = &roomID
	}

	err = tx.GetContext(ctx, &result.PlannerID, `SELECT planner_id FROM projects WHERE id = $1`, offer.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("offer repository: load planner %w", err)
	}

	return result, tx.Commit()
}

func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.GetContext(ctx, &offer, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &offer, err
}

// GetAcceptedByProject returns the single accepted offer, if any.
func (r *OfferRepository) GetAcceptedByProject(ctx context.Context, projectID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.GetContext(ctx, &offer, `
		SELECT `+offerColumns+` FROM offers WHERE project_id = $1 AND status = $2
	`, projectID, models.OfferStatusAccepted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotAccepted
	}
	return &offer, err
}

func (r *OfferRepository) ListByFlorist(ctx context.Context, floristID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.SelectContext(ctx, &offers, `
		SELECT `+offerColumns+` FROM offers WHERE florist_id = $1 ORDER BY created_at DESC
	`, floristID)
	return offers, err
}

// isUniqueViolation reports a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
