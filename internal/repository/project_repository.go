package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flastal/flastal-backend/internal/models"
)

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, title, description, status, target_amount, collected_amount, planner_id,
	delivery_address, delivery_date_time, completion_comment, completion_image_urls,
	created_at, updated_at
`

// Create inserts a project in PENDING_APPROVAL.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	var created models.Project
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO projects (title, description, status, target_amount, planner_id, delivery_address, delivery_date_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectColumns+`
	`, project.Title, project.Description, models.ProjectStatusPendingApproval,
		project.TargetAmount, project.PlannerID, project.DeliveryAddress, project.DeliveryDateTime)
	if err != nil {
		return nil, fmt.Errorf("project repository: create %w", err)
	}
	return &created, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.GetContext(ctx, &project, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	return &project, err
}

func (r *ProjectRepository) ListByPlanner(ctx context.Context, plannerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.SelectContext(ctx, &projects, `
		SELECT `+projectColumns+` FROM projects WHERE planner_id = $1 ORDER BY created_at DESC
	`, plannerID)
	return projects, err
}

// ListFundraising returns publicly visible campaigns.
func (r *ProjectRepository) ListFundraising(ctx context.Context, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.SelectContext(ctx, &projects, `
		SELECT `+projectColumns+` FROM projects
		WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, models.ProjectStatusFundraising, limit, offset)
	return projects, err
}

// ListPending returns projects awaiting admin review, oldest first.
func (r *ProjectRepository) ListPending(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.SelectContext(ctx, &projects, `
		SELECT `+projectColumns+` FROM projects
		WHERE status = $1 ORDER BY created_at ASC
	`, models.ProjectStatusPendingApproval)
	return projects, err
}

// Review moves a PENDING_APPROVAL project to FUNDRAISING or REJECTED.
// The conditional update makes a second review a no-op error instead of
// silently overwriting a live campaign.
func (r *ProjectRepository) Review(ctx context.Context, id uuid.UUID, newStatus string) (*models.Project, error) {
	var project models.Project
	err := r.db.GetContext(ctx, &project, `
		UPDATE projects SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING `+projectColumns+`
	`, id, newStatus, models.ProjectStatusPendingApproval)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrProjectNotReviewable
	}
	return &project, err
}

// Complete records the planner's completion report and moves a
// SUCCESSFUL project to COMPLETED.
func (r *ProjectRepository) Complete(ctx context.Context, id, plannerID uuid.UUID, comment string, imageURLs []string) (*models.Project, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current struct {
		Status    string    `db:"status"`
		PlannerID uuid.UUID `db:"planner_id"`
	}
	err = tx.GetContext(ctx, &current, `SELECT status, planner_id FROM projects WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project repository: lock project %w", err)
	}
	if current.PlannerID != plannerID {
		return nil, ErrNotOwner
	}
	if current.Status != models.ProjectStatusSuccessful {
		return nil, ErrProjectNotCancelable
	}

	var project models.Project
	err = tx.GetContext(ctx, &project, `
		UPDATE projects
		SET status = $2, completion_comment = $3, completion_image_urls = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+projectColumns+`
	`, id, models.ProjectStatusCompleted, comment, pq.Array(imageURLs))
	if err != nil {
		return nil, fmt.Errorf("project repository: complete %w", err)
	}
	return &project, tx.Commit()
}

// RefundedPledger identifies one ledger refund made by a cancellation.
type RefundedPledger struct {
	UserID uuid.UUID
	Amount int64
}

// CancelResult reports a finished cancellation. GuestVoided counts
// guest pledges voided without a ledger credit; those refunds happen
// off-platform through the payment gateway.
type CancelResult struct {
	Project       models.Project
	RefundedCount int
	TotalRefunded int64
	GuestVoided   int
	Refunded      []RefundedPledger
}

// Cancel refunds every non-refunded pledge and sets the project
// CANCELED, all in one transaction. A failure on any refund aborts the
// whole cancellation; there is no partially refunded state.
func (r *ProjectRepository) Cancel(ctx context.Context, id, plannerID uuid.UUID) (*CancelResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current struct {
		Status    string    `db:"status"`
		PlannerID uuid.UUID `db:"planner_id"`
	}
	err = tx.GetContext(ctx, &current, `SELECT status, planner_id FROM projects WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("project repository: lock project %w", err)
	}
	if current.PlannerID != plannerID {
		return nil, ErrNotOwner
	}
	if current.Status == models.ProjectStatusCompleted || current.Status == models.ProjectStatusCanceled {
		return nil, ErrProjectNotCancelable
	}

	var pledges []models.Pledge
	err = tx.SelectContext(ctx, &pledges, `
		SELECT id, project_id, user_id, guest_name, guest_email, tier_id, amount, comment, refunded, created_at
		FROM pledges WHERE project_id = $1 AND refunded = FALSE
		ORDER BY created_at ASC
		FOR UPDATE
	`, id)
	if err != nil {
		return nil, fmt.Errorf("project repository: lock pledges %w", err)
	}

	result := &CancelResult{}
	for _, pledge := range pledges {
		if pledge.UserID != nil {
			if err := creditUserTx(ctx, tx, *pledge.UserID, pledge.Amount); err != nil {
				return nil, err
			}
			if _, err := insertTransactionTx(ctx, tx, models.AccountKindUser, *pledge.UserID, &id,
				models.TransactionTypePledgeRefund, pledge.Amount, "project canceled, pledge refunded"); err != nil {
				return nil, err
			}
			result.RefundedCount++
			result.TotalRefunded += pledge.Amount
			result.Refunded = append(result.Refunded, RefundedPledger{UserID: *pledge.UserID, Amount: pledge.Amount})
		} else {
			result.GuestVoided++
		}

		if _, err := tx.ExecContext(ctx, `UPDATE pledges SET refunded = TRUE WHERE id = $1`, pledge.ID); err != nil {
			return nil, fmt.Errorf("project repository: void pledge %w", err)
		}
	}

	// Every pledge is now refunded, so the collected pool goes to zero
	// to keep collected_amount == sum of non-refunded pledges.
	var project models.Project
	err = tx.GetContext(ctx, &project, `
		UPDATE projects SET status = $2, collected_amount = 0, updated_at = NOW()
		WHERE id = $1
		RETURNING `+projectColumns+`
	`, id, models.ProjectStatusCanceled)
	if err != nil {
		return nil, fmt.Errorf("project repository: set canceled %w", err)
	}

	result.Project = project
	return result, tx.Commit()
}
