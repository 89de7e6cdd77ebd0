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

type PledgeRepository struct {
	db *sqlx.DB
}

func NewPledgeRepository(db *sqlx.DB) *PledgeRepository {
	return &PledgeRepository{db: db}
}

// CreatePledgeParams carries one pledge. Either UserID is set or the
// guest fields are; guests were charged by the payment gateway before
// this call, so no ledger debit happens for them.
type CreatePledgeParams struct {
	ProjectID  uuid.UUID
	UserID     *uuid.UUID
	GuestName  *string
	GuestEmail *string
	TierID     *uuid.UUID
	Amount     int64
	Comment    *string
}

// CreatePledgeResult reports what the transaction did, with enough
// context for the caller to dispatch post-commit notifications.
type CreatePledgeResult struct {
	Pledge             models.Pledge
	NewCollectedAmount int64
	GoalReached        bool
	PlannerID          uuid.UUID
	ProjectTitle       string
}

// Create runs the whole pledge as one transaction: project lock and
// status check, tier amount override, fan debit, pledge insert,
// collected total increment and the exactly-once SUCCESSFUL flip.
func (r *PledgeRepository) Create(ctx context.Context, p CreatePledgeParams) (*CreatePledgeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var project struct {
		Status       string    `db:"status"`
		TargetAmount int64     `db:"target_amount"`
		PlannerID    uuid.UUID `db:"planner_id"`
		Title        string    `db:"title"`
	}
	err = tx.GetContext(ctx, &project, `
		SELECT status, target_amount, planner_id, title
		FROM projects WHERE id = $1 FOR UPDATE
	`, p.ProjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pledge repository: lock project %w", err)
	}
	if project.Status != models.ProjectStatusFundraising {
		return nil, ErrProjectNotFunding
	}

	amount := p.Amount
	if p.TierID != nil {
		// The tier's fixed amount always wins over the supplied one.
		err = tx.GetContext(ctx, &amount, `
			SELECT amount FROM pledge_tiers WHERE id = $1 AND project_id = $2
		`, *p.TierID, p.ProjectID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTierNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("pledge repository: load tier %w", err)
		}
	}

	if p.UserID != nil {
		if err := debitUserTx(ctx, tx, *p.UserID, amount); err != nil {
			return nil, err
		}
		// Lifetime supporter total only ever grows; refunds do not undo it.
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET total_pledged_amount = total_pledged_amount + $2 WHERE id = $1
		`, *p.UserID, amount)
		if err != nil {
			return nil, fmt.Errorf("pledge repository: update supporter total %w", err)
		}
	}

	var pledge models.Pledge
	err = tx.GetContext(ctx, &pledge, `
		INSERT INTO pledges (project_id, user_id, guest_name, guest_email, tier_id, amount, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, project_id, user_id, guest_name, guest_email, tier_id, amount, comment, refunded, created_at
	`, p.ProjectID, p.UserID, p.GuestName, p.GuestEmail, p.TierID, amount, p.Comment)
	if err != nil {
		return nil, fmt.Errorf("pledge repository: insert pledge %w", err)
	}

	var newCollected int64
	err = tx.GetContext(ctx, &newCollected, `
		UPDATE projects SET collected_amount = collected_amount + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING collected_amount
	`, p.ProjectID, amount)
	if err != nil {
		return nil, fmt.Errorf("pledge repository: update collected %w", err)
	}

	goalReached := false
	if newCollected >= project.TargetAmount {
		// Conditional flip inside the same transaction: when two pledges
		// cross the goal concurrently, only one observes the update.
		res, err := tx.ExecContext(ctx, `
			UPDATE projects SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3
		`, p.ProjectID, models.ProjectStatusSuccessful, models.ProjectStatusFundraising)
		if err != nil {
			return nil, fmt.Errorf("pledge repository: flip status %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			goalReached = true
		}
	}

	if p.UserID != nil {
		if _, err := insertTransactionTx(ctx, tx, models.AccountKindUser, *p.UserID, &p.ProjectID,
			models.TransactionTypePledge, -amount, "pledge to project"); err != nil {
			return nil, err
		}
	}

	result := &CreatePledgeResult{
		Pledge:             pledge,
		NewCollectedAmount: newCollected,
		GoalReached:        goalReached,
		PlannerID:          project.PlannerID,
		ProjectTitle:       project.Title,
	}
	return result, tx.Commit()
}

// ListByProject returns a project's pledges, newest first.
func (r *PledgeRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Pledge, error) {
	var pledges []models.Pledge
	err := r.db.SelectContext(ctx, &pledges, `
		SELECT id, project_id, user_id, guest_name, guest_email, tier_id, amount, comment, refunded, created_at
		FROM pledges WHERE project_id = $1 ORDER BY created_at DESC
	`, projectID)
	return pledges, err
}

// SetTiers replaces a project's pledge tiers in one transaction.
func (r *PledgeRepository) SetTiers(ctx context.Context, projectID uuid.UUID, tiers []models.PledgeTier) ([]models.PledgeTier, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pledge_tiers WHERE project_id = $1`, projectID); err != nil {
		return nil, fmt.Errorf("pledge repository: clear tiers %w", err)
	}

	saved := make([]models.PledgeTier, 0, len(tiers))
	for _, t := range tiers {
		var tier models.PledgeTier
		err := tx.GetContext(ctx, &tier, `
			INSERT INTO pledge_tiers (project_id, title, description, amount)
			VALUES ($1, $2, $3, $4)
			RETURNING id, project_id, title, description, amount, created_at
		`, projectID, t.Title, t.Description, t.Amount)
		if err != nil {
			return nil, fmt.Errorf("pledge repository: insert tier %w", err)
		}
		saved = append(saved, tier)
	}

	return saved, tx.Commit()
}

// ListTiers returns a project's tiers ordered by amount.
func (r *PledgeRepository) ListTiers(ctx context.Context, projectID uuid.UUID) ([]models.PledgeTier, error) {
	var tiers []models.PledgeTier
	err := r.db.SelectContext(ctx, &tiers, `
		SELECT id, project_id, title, description, amount, created_at
		FROM pledge_tiers WHERE project_id = $1 ORDER BY amount ASC
	`, projectID)
	return tiers, err
}
