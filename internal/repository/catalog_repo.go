package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/upskillhq/workshop-platform/internal/model"
)

// Catalog repositories back the marketing-site collections. They share the
// same shape: full CRUD plus a bulk display_order rewrite.

// reorder rewrites display_order for a table so rows appear in the order of
// ids. Done in one transaction so a half-applied reorder never shows.
func reorder(ctx context.Context, db *pgxpool.Pool, table string, ids []string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for i, id := range ids {
		var ct pgconn.CommandTag
		ct, err = tx.Exec(ctx,
			`UPDATE `+table+` SET display_order = $2 WHERE id = $1`, id, i)
		if err != nil {
			return fmt.Errorf("reorder %s: %w", table, err)
		}
		if ct.RowsAffected() == 0 {
			err = ErrNotFound
			return err
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ─── Trainers ────────────────────────────────────────────────────────────────

type TrainerRepository struct {
	db *pgxpool.Pool
}

func NewTrainerRepository(db *pgxpool.Pool) *TrainerRepository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) Create(ctx context.Context, t model.Trainer) (*model.Trainer, error) {
	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO trainers (id, name, title, bio, photo_url, linkedin_url, display_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Title, t.Bio, t.PhotoURL, t.LinkedinURL, t.DisplayOrder, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trainer: %w", err)
	}
	return &t, nil
}

func (r *TrainerRepository) List(ctx context.Context) ([]model.Trainer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, title, bio, photo_url, linkedin_url, display_order, created_at
		 FROM trainers ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var out []model.Trainer
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.Title, &t.Bio, &t.PhotoURL,
			&t.LinkedinURL, &t.DisplayOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trainer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TrainerRepository) GetByID(ctx context.Context, id string) (*model.Trainer, error) {
	var t model.Trainer
	err := r.db.QueryRow(ctx,
		`SELECT id, name, title, bio, photo_url, linkedin_url, display_order, created_at
		 FROM trainers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Title, &t.Bio, &t.PhotoURL, &t.LinkedinURL, &t.DisplayOrder, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get trainer: %w", err)
	}
	return &t, nil
}

func (r *TrainerRepository) Update(ctx context.Context, t model.Trainer) (*model.Trainer, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE trainers SET name = $2, title = $3, bio = $4, photo_url = $5,
		   linkedin_url = $6, display_order = $7
		 WHERE id = $1`,
		t.ID, t.Name, t.Title, t.Bio, t.PhotoURL, t.LinkedinURL, t.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("update trainer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TrainerRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainer: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TrainerRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "trainers", ids)
}

// ─── Testimonials ────────────────────────────────────────────────────────────

type TestimonialRepository struct {
	db *pgxpool.Pool
}

func NewTestimonialRepository(db *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t model.Testimonial) (*model.Testimonial, error) {
	t.ID = uuid.New().String()
	t.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO testimonials (id, author, role, company, quote, rating, display_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Author, t.Role, t.Company, t.Quote, t.Rating, t.DisplayOrder, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert testimonial: %w", err)
	}
	return &t, nil
}

func (r *TestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, author, role, company, quote, rating, display_order, created_at
		 FROM testimonials ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	var out []model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.Author, &t.Role, &t.Company, &t.Quote,
			&t.Rating, &t.DisplayOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id string) (*model.Testimonial, error) {
	var t model.Testimonial
	err := r.db.QueryRow(ctx,
		`SELECT id, author, role, company, quote, rating, display_order, created_at
		 FROM testimonials WHERE id = $1`, id,
	).Scan(&t.ID, &t.Author, &t.Role, &t.Company, &t.Quote, &t.Rating, &t.DisplayOrder, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

func (r *TestimonialRepository) Update(ctx context.Context, t model.Testimonial) (*model.Testimonial, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE testimonials SET author = $2, role = $3, company = $4, quote = $5,
		   rating = $6, display_order = $7
		 WHERE id = $1`,
		t.ID, t.Author, t.Role, t.Company, t.Quote, t.Rating, t.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TestimonialRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "testimonials", ids)
}

// ─── FAQs ────────────────────────────────────────────────────────────────────

type FAQRepository struct {
	db *pgxpool.Pool
}

func NewFAQRepository(db *pgxpool.Pool) *FAQRepository {
	return &FAQRepository{db: db}
}

func (r *FAQRepository) Create(ctx context.Context, f model.FAQ) (*model.FAQ, error) {
	f.ID = uuid.New().String()
	f.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO faqs (id, question, answer, display_order, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Question, f.Answer, f.DisplayOrder, f.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert faq: %w", err)
	}
	return &f, nil
}

func (r *FAQRepository) List(ctx context.Context) ([]model.FAQ, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question, answer, display_order, created_at
		 FROM faqs ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", err)
	}
	defer rows.Close()

	var out []model.FAQ
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.DisplayOrder, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan faq: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FAQRepository) GetByID(ctx context.Context, id string) (*model.FAQ, error) {
	var f model.FAQ
	err := r.db.QueryRow(ctx,
		`SELECT id, question, answer, display_order, created_at FROM faqs WHERE id = $1`, id,
	).Scan(&f.ID, &f.Question, &f.Answer, &f.DisplayOrder, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get faq: %w", err)
	}
	return &f, nil
}

func (r *FAQRepository) Update(ctx context.Context, f model.FAQ) (*model.FAQ, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE faqs SET question = $2, answer = $3, display_order = $4 WHERE id = $1`,
		f.ID, f.Question, f.Answer, f.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("update faq: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, f.ID)
}

func (r *FAQRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete faq: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FAQRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "faqs", ids)
}

// ─── Pricing plans ───────────────────────────────────────────────────────────

type PricingPlanRepository struct {
	db *pgxpool.Pool
}

func NewPricingPlanRepository(db *pgxpool.Pool) *PricingPlanRepository {
	return &PricingPlanRepository{db: db}
}

func (r *PricingPlanRepository) Create(ctx context.Context, p model.PricingPlan) (*model.PricingPlan, error) {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now().UTC()
	if p.Features == nil {
		p.Features = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO pricing_plans (id, name, price, period, features, highlighted, display_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Price, p.Period, p.Features, p.Highlighted, p.DisplayOrder, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pricing plan: %w", err)
	}
	return &p, nil
}

func (r *PricingPlanRepository) List(ctx context.Context) ([]model.PricingPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price, period, features, highlighted, display_order, created_at
		 FROM pricing_plans ORDER BY display_order ASC, price ASC`)
	if err != nil {
		return nil, fmt.Errorf("list pricing plans: %w", err)
	}
	defer rows.Close()

	var out []model.PricingPlan
	for rows.Next() {
		var p model.PricingPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Period, &p.Features,
			&p.Highlighted, &p.DisplayOrder, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pricing plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PricingPlanRepository) GetByID(ctx context.Context, id string) (*model.PricingPlan, error) {
	var p model.PricingPlan
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, period, features, highlighted, display_order, created_at
		 FROM pricing_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Period, &p.Features, &p.Highlighted, &p.DisplayOrder, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pricing plan: %w", err)
	}
	return &p, nil
}

func (r *PricingPlanRepository) Update(ctx context.Context, p model.PricingPlan) (*model.PricingPlan, error) {
	if p.Features == nil {
		p.Features = []string{}
	}
	ct, err := r.db.Exec(ctx,
		`UPDATE pricing_plans SET name = $2, price = $3, period = $4, features = $5,
		   highlighted = $6, display_order = $7
		 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Period, p.Features, p.Highlighted, p.DisplayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("update pricing plan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PricingPlanRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM pricing_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pricing plan: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PricingPlanRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "pricing_plans", ids)
}
