package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/upskillhq/workshop-platform/internal/model"
)

// CertificateRepository handles persistence for completion certificates.
type CertificateRepository struct {
	db *pgxpool.Pool
}

func NewCertificateRepository(db *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{db: db}
}

// Issue creates a certificate for a confirmed registration. Issuing twice
// for the same registration returns the existing certificate.
func (r *CertificateRepository) Issue(ctx context.Context, registrationID, workshopTitle, recipientName string) (*model.Certificate, error) {
	if existing, err := r.GetByRegistration(ctx, registrationID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	code, err := newVerificationCode()
	if err != nil {
		return nil, err
	}
	cert := model.Certificate{
		ID:               uuid.New().String(),
		RegistrationID:   registrationID,
		WorkshopTitle:    workshopTitle,
		RecipientName:    recipientName,
		VerificationCode: code,
		IssuedAt:         time.Now().UTC(),
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO certificates (id, registration_id, workshop_title, recipient_name, verification_code, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cert.ID, cert.RegistrationID, cert.WorkshopTitle, cert.RecipientName,
		cert.VerificationCode, cert.IssuedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert certificate: %w", err)
	}
	return &cert, nil
}

func (r *CertificateRepository) List(ctx context.Context) ([]model.Certificate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, registration_id, workshop_title, recipient_name, verification_code, issued_at
		 FROM certificates ORDER BY issued_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var out []model.Certificate
	for rows.Next() {
		var c model.Certificate
		if err := rows.Scan(&c.ID, &c.RegistrationID, &c.WorkshopTitle,
			&c.RecipientName, &c.VerificationCode, &c.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByCode resolves a certificate by its public verification code.
func (r *CertificateRepository) GetByCode(ctx context.Context, code string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.db.QueryRow(ctx,
		`SELECT id, registration_id, workshop_title, recipient_name, verification_code, issued_at
		 FROM certificates WHERE verification_code = $1`, strings.ToUpper(strings.TrimSpace(code)),
	).Scan(&c.ID, &c.RegistrationID, &c.WorkshopTitle, &c.RecipientName, &c.VerificationCode, &c.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

func (r *CertificateRepository) GetByRegistration(ctx context.Context, registrationID string) (*model.Certificate, error) {
	var c model.Certificate
	err := r.db.QueryRow(ctx,
		`SELECT id, registration_id, workshop_title, recipient_name, verification_code, issued_at
		 FROM certificates WHERE registration_id = $1`, registrationID,
	).Scan(&c.ID, &c.RegistrationID, &c.WorkshopTitle, &c.RecipientName, &c.VerificationCode, &c.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

func newVerificationCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return "WSP-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
