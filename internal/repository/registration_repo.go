package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/upskillhq/workshop-platform/internal/model"
)

const registrationColumns = `id, workshop_id, workshop_title, user_name, email, phone,
	 organization, amount, currency, status, payment_status, order_id, payment_id,
	 notes, cancellation_reason, registered_at, confirmed_at`

// RegistrationRepository handles persistence for registrations. All writes
// that move the workshop enrolled counter happen inside the same transaction
// as the registration row change, using server-side arithmetic
// (enrolled = enrolled + 1) so concurrent writers cannot race the counter.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create inserts a pending/pending registration and takes one seat on the
// workshop atomically. Returns ErrNotFound if the workshop does not exist
// and ErrWorkshopFull when the capacity guard rejects the seat.
func (r *RegistrationRepository) Create(ctx context.Context, reg model.Registration) (*model.Registration, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The capacity guard lives in the WHERE clause: the increment only lands
	// when a seat remains, so two concurrent registrations for the last seat
	// cannot both succeed.
	ct, err := tx.Exec(ctx,
		`UPDATE workshops
		 SET enrolled = enrolled + 1, updated_at = $2
		 WHERE id = $1 AND enrolled < capacity`,
		reg.WorkshopID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("take seat: %w", err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if scanErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM workshops WHERE id = $1)`, reg.WorkshopID,
		).Scan(&exists); scanErr != nil {
			err = fmt.Errorf("check workshop: %w", scanErr)
			return nil, err
		}
		if !exists {
			err = ErrNotFound
			return nil, err
		}
		err = ErrWorkshopFull
		return nil, err
	}

	reg.ID = uuid.New().String()
	reg.Status = model.RegistrationPending
	reg.PaymentStatus = model.PaymentPending
	reg.RegisteredAt = time.Now().UTC()
	if reg.Currency == "" {
		reg.Currency = "INR"
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, workshop_id, workshop_title, user_name, email, phone,
		   organization, amount, currency, status, payment_status, order_id, payment_id,
		   notes, cancellation_reason, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		reg.ID, reg.WorkshopID, reg.WorkshopTitle, reg.UserName, reg.Email, reg.Phone,
		reg.Organization, reg.Amount, reg.Currency, reg.Status, reg.PaymentStatus,
		reg.OrderID, reg.PaymentID, reg.Notes, reg.CancellationReason, reg.RegisteredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return &reg, nil
}

// GetByID returns a single registration or ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// List returns registrations, optionally filtered by workshop id, newest first.
func (r *RegistrationRepository) List(ctx context.Context, workshopID string) ([]model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations`
	args := []any{}
	if workshopID != "" {
		query += ` WHERE workshop_id = $1`
		args = append(args, workshopID)
	}
	query += ` ORDER BY registered_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

// AttachOrder stores the vendor order id on a freshly created registration.
func (r *RegistrationRepository) AttachOrder(ctx context.Context, id, orderID string) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE registrations SET order_id = $2 WHERE id = $1`, id, orderID)
	if err != nil {
		return fmt.Errorf("attach order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Confirm flips a registration to confirmed/completed, but only if it is
// still pending. The WHERE clause is the at-most-once guard: of two
// concurrent verifications, exactly one sees RowsAffected == 1; the other
// gets ErrAlreadyConfirmed and must not repeat side effects.
func (r *RegistrationRepository) Confirm(ctx context.Context, id, paymentID string, at time.Time) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE registrations
		 SET status = 'confirmed', payment_status = 'completed', payment_id = $2, confirmed_at = $3
		 WHERE id = $1 AND payment_status = 'pending' AND status <> 'cancelled'`,
		id, paymentID, at,
	)
	if err != nil {
		return fmt.Errorf("confirm registration: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyConfirmed
	}
	return nil
}

// MarkFailed records a failed checkout, cancels the registration, and
/// releases the seat so a retrying user does not hold two. Idempotent: a
// registration already failed, cancelled, or confirmed is left untouched and
// its seat is not released twice.
func (r *RegistrationRepository) MarkFailed(ctx context.Context, id, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ct, err := tx.Exec(ctx,
		`UPDATE registrations
		 SET payment_status = 'failed', status = 'cancelled',
		     cancellation_reason = CASE WHEN $2 = '' THEN 'checkout failed' ELSE $2 END
		 WHERE id = $1 AND payment_status = 'pending' AND status <> 'cancelled'`,
		id, reason,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	if ct.RowsAffected() == 1 {
		if err = releaseSeat(ctx, tx, id); err != nil {
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// MarkRefunded records a vendor refund, cancels the registration, and
// releases the seat.
func (r *RegistrationRepository) MarkRefunded(ctx context.Context, id, reason string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	ct, err := tx.Exec(ctx,
		`UPDATE registrations
		 SET payment_status = 'refunded', status = 'cancelled', cancellation_reason = $2
		 WHERE id = $1 AND payment_status = 'completed'`,
		id, reason,
	)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if ct.RowsAffected() == 0 {
		err = ErrNotFound
		return err
	}
	if err = releaseSeat(ctx, tx, id); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a registration by administrative action and releases the
// seat unless the registration was already cancelled.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status model.RegistrationStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM registrations WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}

	if status != model.RegistrationCancelled {
		if err = releaseSeat(ctx, tx, id); err != nil {
			return err
		}
	}
	if _, err = tx.Exec(ctx, `DELETE FROM notification_outbox WHERE registration_id = $1`, id); err != nil {
		return fmt.Errorf("delete outbox entries: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM certificates WHERE registration_id = $1`, id); err != nil {
		return fmt.Errorf("delete certificates: %w", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CancelExpiredPending cancels pending/pending registrations registered
// before the cutoff (abandoned checkouts and failed order creations) and
// releases their seats. Returns the number cancelled.
func (r *RegistrationRepository) CancelExpiredPending(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rows, err := tx.Query(ctx,
		`UPDATE registrations
		 SET status = 'cancelled', cancellation_reason = 'payment window expired'
		 WHERE status = 'pending' AND payment_status = 'pending' AND registered_at < $1
		 RETURNING workshop_id`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("expire registrations: %w", err)
	}
	var workshopIDs []string
	for rows.Next() {
		var wid string
		if err = rows.Scan(&wid); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan expired: %w", err)
		}
		workshopIDs = append(workshopIDs, wid)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, wid := range workshopIDs {
		if _, err = tx.Exec(ctx,
			`UPDATE workshops SET enrolled = GREATEST(enrolled - 1, 0) WHERE id = $1`, wid,
		); err != nil {
			return 0, fmt.Errorf("release seat: %w", err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return len(workshopIDs), nil
}

func releaseSeat(ctx context.Context, tx pgx.Tx, registrationID string) error {
	_, err := tx.Exec(ctx,
		`UPDATE workshops
		 SET enrolled = GREATEST(enrolled - 1, 0)
		 WHERE id = (SELECT workshop_id FROM registrations WHERE id = $1)`,
		registrationID,
	)
	if err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(&reg.ID, &reg.WorkshopID, &reg.WorkshopTitle, &reg.UserName, &reg.Email,
		&reg.Phone, &reg.Organization, &reg.Amount, &reg.Currency, &reg.Status,
		&reg.PaymentStatus, &reg.OrderID, &reg.PaymentID, &reg.Notes,
		&reg.CancellationReason, &reg.RegisteredAt, &reg.ConfirmedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
