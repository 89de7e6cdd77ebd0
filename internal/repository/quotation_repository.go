package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/flastal/flastal-backend/internal/models"
)

// QuotationRepository owns the settlement: quotation submission,
// approval and the resulting one-time transfer of project funds to the
// florist. defaultFeeRate applies when neither the florist override nor
// the stored system settings provide a rate.
type QuotationRepository struct {
	db             *sqlx.DB
	defaultFeeRate float64
}

func NewQuotationRepository(db *sqlx.DB, defaultFeeRate float64) *QuotationRepository {
	return &QuotationRepository{db: db, defaultFeeRate: defaultFeeRate}
}

const quotationColumns = `
	id, project_id, florist_id, total_amount, is_approved, is_finalized,
	approved_at, finalized_at, created_at
`

// SubmitItem is one quotation line as supplied by the florist.
type SubmitItem struct {
	ItemName string
	Amount   int64
}

// Submit stores an itemized quotation. Only the florist holding the
// accepted offer may submit; the total is computed here, never taken
// from the caller.
func (r *QuotationRepository) Submit(ctx context.Context, projectID, floristID uuid.UUID, items []SubmitItem) (*models.Quotation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var offerFlorist uuid.UUID
	err = tx.GetContext(ctx, &offerFlorist, `
		SELECT florist_id FROM offers WHERE project_id = $1 AND status = $2
	`, projectID, models.OfferStatusAccepted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotAccepted
	}
	if err != nil {
		return nil, fmt.Errorf("quotation repository: load offer %w", err)
	}
	if offerFlorist != floristID {
		return nil, ErrOfferNotAccepted
	}

	var total int64
	for _, item := range items {
		total += item.Amount
	}

	// An unapproved draft is superseded by a resubmission.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM quotations WHERE project_id = $1 AND is_approved = FALSE
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("quotation repository: drop drafts %w", err)
	}

	var quotation models.Quotation
	err = tx.GetContext(ctx, &quotation, `
		INSERT INTO quotations (project_id, florist_id, total_amount)
		VALUES ($1, $2, $3)
		RETURNING `+quotationColumns+`
	`, projectID, floristID, total)
	if err != nil {
		return nil, fmt.Errorf("quotation repository: insert %w", err)
	}

	for i, item := range items {
		var saved models.QuotationItem
		err = tx.GetContext(ctx, &saved, `
			INSERT INTO quotation_items (quotation_id, item_name, amount, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id, quotation_id, item_name, amount, position
		`, quotation.ID, item.ItemName, item.Amount, i)
		if err != nil {
			return nil, fmt.Errorf("quotation repository: insert item %w", err)
		}
		quotation.Items = append(quotation.Items, saved)
	}

	return &quotation, tx.Commit()
}

// ApprovalResult reports the settled transfer.
type ApprovalResult struct {
	Quotation  models.Quotation
	Commission int64
	NetPayout  int64
	FeeRate    float64
	FloristID  uuid.UUID
	ProjectID  uuid.UUID
}

// Approve performs the single irreversible money movement of a project:
// it credits the florist with the quotation total net of commission and
// records the commission, exactly once. The conditional
// is_approved FALSE -> TRUE update is the idempotency gate; under two
// concurrent approvals exactly one wins and the other sees
// ErrAlreadyApproved.
func (r *QuotationRepository) Approve(ctx context.Context, quotationID, requesterID uuid.UUID) (*ApprovalResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var quotation models.Quotation
	err = tx.GetContext(ctx, &quotation, `
		SELECT `+quotationColumns+` FROM quotations WHERE id = $1 FOR UPDATE
	`, quotationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quotation repository: lock quotation %w", err)
	}

	var project struct {
		PlannerID       uuid.UUID `db:"planner_id"`
		CollectedAmount int64     `db:"collected_amount"`
	}
	err = tx.GetContext(ctx, &project, `
		SELECT planner_id, collected_amount FROM projects WHERE id = $1 FOR UPDATE
	`, quotation.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("quotation repository: lock project %w", err)
	}
	if project.PlannerID != requesterID {
		return nil, ErrNotOwner
	}
	if quotation.IsApproved {
		return nil, ErrAlreadyApproved
	}
	if project.CollectedAmount < quotation.TotalAmount {
		return nil, ErrInsufficientFunds
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE quotations SET is_approved = TRUE, approved_at = NOW()
		WHERE id = $1 AND is_approved = FALSE
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation repository: approve %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAlreadyApproved
	}

	rate, err := r.resolveFeeRate(ctx, tx, quotation.FloristID)
	if err != nil {
		return nil, err
	}

	netPayout, commission := splitSettlement(quotation.TotalAmount, rate)

	if err := creditFloristTx(ctx, tx, quotation.FloristID, netPayout); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO commissions (project_id, amount) VALUES ($1, $2)
	`, quotation.ProjectID, commission); err != nil {
		return nil, fmt.Errorf("quotation repository: insert commission %w", err)
	}
	if _, err := insertTransactionTx(ctx, tx, models.AccountKindFlorist, quotation.FloristID, &quotation.ProjectID,
		models.TransactionTypeSettlement, netPayout, "quotation approved, settlement credited"); err != nil {
		return nil, err
	}

	quotation.IsApproved = true
	result := &ApprovalResult{
		Quotation:  quotation,
		Commission: commission,
		NetPayout:  netPayout,
		FeeRate:    rate,
		FloristID:  quotation.FloristID,
		ProjectID:  quotation.ProjectID,
	}
	return result, tx.Commit()
}

// splitSettlement divides a quotation total into the florist's net
// payout and the platform commission. The payout rounds down, so the
// commission absorbs the fractional point and the two always sum to
// the total.
func splitSettlement(total int64, rate float64) (netPayout, commission int64) {
	netPayout = int64(math.Floor(float64(total) * (1 - rate)))
	commission = total - netPayout
	return netPayout, commission
}

// resolveFeeRate picks the effective commission rate: florist override
// first, then stored system settings, then the configured default.
func (r *QuotationRepository) resolveFeeRate(ctx context.Context, tx *sqlx.Tx, floristID uuid.UUID) (float64, error) {
	var override *float64
	err := tx.GetContext(ctx, &override, `SELECT custom_fee_rate FROM florists WHERE id = $1`, floristID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("quotation repository: load fee override %w", err)
	}
	if override != nil {
		return *override, nil
	}

	var platformRate float64
	err = tx.GetContext(ctx, &platformRate, `SELECT platform_fee_rate FROM system_settings LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return r.defaultFeeRate, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quotation repository: load settings %w", err)
	}
	return platformRate, nil
}

// Finalize lets the florist mark an approved quotation as final.
// Unapproved quotations cannot be finalized.
func (r *QuotationRepository) Finalize(ctx context.Context, quotationID, floristID uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.GetContext(ctx, &quotation, `
		UPDATE quotations SET is_finalized = TRUE, finalized_at = NOW()
		WHERE id = $1 AND florist_id = $2 AND is_approved = TRUE
		RETURNING `+quotationColumns+`
	`, quotationID, floristID)
	if !errors.Is(err, sql.ErrNoRows) {
		return &quotation, err
	}

	// Distinguish a missing or foreign quotation from an unapproved one.
	var current models.Quotation
	err = r.db.GetContext(ctx, &current, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, quotationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if current.FloristID != floristID {
		return nil, ErrNotOwner
	}
	return nil, ErrNotApproved
}

// GetByID loads a quotation with its line items.
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.GetContext(ctx, &quotation, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &quotation.Items, `
		SELECT id, quotation_id, item_name, amount, position
		FROM quotation_items WHERE quotation_id = $1 ORDER BY position ASC
	`, id)
	return &quotation, err
}

// GetByProject loads the current quotation for a project, if any.
func (r *QuotationRepository) GetByProject(ctx context.Context, projectID uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.GetContext(ctx, &quotation, `
		SELECT `+quotationColumns+` FROM quotations
		WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1
	`, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &quotation.Items, `
		SELECT id, quotation_id, item_name, amount, position
		FROM quotation_items WHERE quotation_id = $1 ORDER BY position ASC
	`, quotation.ID)
	return &quotation, err
}
