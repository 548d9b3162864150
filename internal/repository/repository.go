// Package repository implements all database queries for the workshop
// platform. It uses pgx directly (no ORM) for transparency and performance.
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

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrWorkshopFull is returned when a workshop has no remaining capacity.
var ErrWorkshopFull = errors.New("workshop is fully booked")

// ErrAlreadyConfirmed is returned when a conditional state transition finds
// the registration no longer pending.
var ErrAlreadyConfirmed = errors.New("registration already confirmed")

const workshopColumns = `id, title, description, trainer_id, price, capacity, enrolled,
	 starts_at, duration_days, mode, display_order, created_at, updated_at`

// WorkshopRepository handles persistence for workshops.
type WorkshopRepository struct {
	db *pgxpool.Pool
}

// NewWorkshopRepository constructs a WorkshopRepository.
func NewWorkshopRepository(db *pgxpool.Pool) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

// Create inserts a new workshop and returns it with a generated UUID.
func (r *WorkshopRepository) Create(ctx context.Context, w model.Workshop) (*model.Workshop, error) {
	now := time.Now().UTC()
	w.ID = uuid.New().String()
	w.Enrolled = 0
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO workshops (id, title, description, trainer_id, price, capacity, enrolled,
		   starts_at, duration_days, mode, display_order, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		w.ID, w.Title, w.Description, w.TrainerID, w.Price, w.Capacity, w.Enrolled,
		w.StartsAt, w.DurationDays, w.Mode, w.DisplayOrder, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workshop: %w", err)
	}
	return &w, nil
}

// List returns all workshops ordered for display.
func (r *WorkshopRepository) List(ctx context.Context) ([]model.Workshop, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+workshopColumns+`
		 FROM workshops
		 ORDER BY display_order ASC, starts_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer rows.Close()

	var workshops []model.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workshop: %w", err)
		}
		workshops = append(workshops, *w)
	}
	return workshops, rows.Err()
}

// GetByID returns a single workshop or ErrNotFound.
func (r *WorkshopRepository) GetByID(ctx context.Context, id string) (*model.Workshop, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+workshopColumns+` FROM workshops WHERE id = $1`, id)
	w, err := scanWorkshop(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get workshop: %w", err)
	}
	return w, nil
}

// Update overwrites the mutable fields of a workshop. The enrolled counter
// is never set here; it only moves with registration writes.
func (r *WorkshopRepository) Update(ctx context.Context, w model.Workshop) (*model.Workshop, error) {
	w.UpdatedAt = time.Now().UTC()
	ct, err := r.db.Exec(ctx,
		`UPDATE workshops
		 SET title = $2, description = $3, trainer_id = $4, price = $5, capacity = $6,
		     starts_at = $7, duration_days = $8, mode = $9, display_order = $10, updated_at = $11
		 WHERE id = $1`,
		w.ID, w.Title, w.Description, w.TrainerID, w.Price, w.Capacity,
		w.StartsAt, w.DurationDays, w.Mode, w.DisplayOrder, w.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update workshop: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, w.ID)
}

// Delete removes a workshop. Fails if registrations still reference it.
func (r *WorkshopRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM workshops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workshop: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates enrollment and revenue across all workshops.
func (r *WorkshopRepository) Stats(ctx context.Context) (*model.WorkshopStats, error) {
	var s model.WorkshopStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(capacity), 0), COALESCE(SUM(enrolled), 0) FROM workshops`,
	).Scan(&s.TotalWorkshops, &s.TotalCapacity, &s.TotalEnrolled)
	if err != nil {
		return nil, fmt.Errorf("workshop stats: %w", err)
	}
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount) FILTER (WHERE payment_status = 'completed'), 0),
		        COUNT(*) FILTER (WHERE status = 'pending' AND payment_status = 'pending')
		 FROM registrations`,
	).Scan(&s.ConfirmedRevenue, &s.PendingRegistrants)
	if err != nil {
		return nil, fmt.Errorf("registration stats: %w", err)
	}
	return &s, nil
}

func scanWorkshop(row pgx.Row) (*model.Workshop, error) {
	var w model.Workshop
	err := row.Scan(&w.ID, &w.Title, &w.Description, &w.TrainerID, &w.Price, &w.Capacity,
		&w.Enrolled, &w.StartsAt, &w.DurationDays, &w.Mode, &w.DisplayOrder,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
