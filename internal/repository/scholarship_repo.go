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

// ScholarshipRepository handles persistence for scholarship applications.
type ScholarshipRepository struct {
	db *pgxpool.Pool
}

func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

func (r *ScholarshipRepository) Create(ctx context.Context, s model.Scholarship) (*model.Scholarship, error) {
	s.ID = uuid.New().String()
	s.Status = model.ScholarshipPending
	s.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO scholarships (id, applicant_name, email, phone, workshop_id, reason, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.ApplicantName, s.Email, s.Phone, s.WorkshopID, s.Reason, s.Status, s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scholarship: %w", err)
	}
	return &s, nil
}

func (r *ScholarshipRepository) List(ctx context.Context) ([]model.Scholarship, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, applicant_name, email, phone, workshop_id, reason, status, reviewed_at, created_at
		 FROM scholarships ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scholarships: %w", err)
	}
	defer rows.Close()

	var out []model.Scholarship
	for rows.Next() {
		var s model.Scholarship
		if err := rows.Scan(&s.ID, &s.ApplicantName, &s.Email, &s.Phone, &s.WorkshopID,
			&s.Reason, &s.Status, &s.ReviewedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scholarship: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScholarshipRepository) GetByID(ctx context.Context, id string) (*model.Scholarship, error) {
	var s model.Scholarship
	err := r.db.QueryRow(ctx,
		`SELECT id, applicant_name, email, phone, workshop_id, reason, status, reviewed_at, created_at
		 FROM scholarships WHERE id = $1`, id,
	).Scan(&s.ID, &s.ApplicantName, &s.Email, &s.Phone, &s.WorkshopID, &s.Reason,
		&s.Status, &s.ReviewedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scholarship: %w", err)
	}
	return &s, nil
}

// Review sets the outcome of a pending application.
func (r *ScholarshipRepository) Review(ctx context.Context, id string, status model.ScholarshipStatus) (*model.Scholarship, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE scholarships SET status = $2, reviewed_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("review scholarship: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ScholarshipRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM scholarships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
