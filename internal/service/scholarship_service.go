package service

import (
	"context"
	"errors"
	"strings"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

// ScholarshipService handles public applications and admin review.
type ScholarshipService struct {
	scholarships *repository.ScholarshipRepository
	workshops    *repository.WorkshopRepository
}

// NewScholarshipService constructs a ScholarshipService.
func NewScholarshipService(
	scholarships *repository.ScholarshipRepository,
	workshops *repository.WorkshopRepository,
) *ScholarshipService {
	return &ScholarshipService{scholarships: scholarships, workshops: workshops}
}

// Apply records a public scholarship application after checking the
// workshop exists.
func (s *ScholarshipService) Apply(ctx context.Context, req model.ApplyScholarshipRequest) (*model.Scholarship, error) {
	req.ApplicantName = strings.TrimSpace(req.ApplicantName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if _, err := s.workshops.GetByID(ctx, req.WorkshopID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("workshop not found")
		}
		return nil, apperr.Internal("check workshop", err)
	}
	sch, err := s.scholarships.Create(ctx, model.Scholarship{
		ApplicantName: req.ApplicantName,
		Email:         req.Email,
		Phone:         req.Phone,
		WorkshopID:    req.WorkshopID,
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, apperr.Internal("create scholarship", err)
	}
	return sch, nil
}

// List returns all applications, newest first.
func (s *ScholarshipService) List(ctx context.Context) ([]model.Scholarship, error) {
	out, err := s.scholarships.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list scholarships", err)
	}
	return out, nil
}

// Review approves or rejects an application.
func (s *ScholarshipService) Review(ctx context.Context, id string, req model.ReviewScholarshipRequest) (*model.Scholarship, error) {
	if id == "" {
		return nil, apperr.Validation("scholarship id is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	sch, err := s.scholarships.Review(ctx, id, model.ScholarshipStatus(req.Status))
	if err != nil {
		return nil, mapRepoErr("review scholarship", err)
	}
	return sch, nil
}

// CertificateService exposes issuance records and public verification.
type CertificateService struct {
	certs *repository.CertificateRepository
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(certs *repository.CertificateRepository) *CertificateService {
	return &CertificateService{certs: certs}
}

// List returns all issued certificates.
func (s *CertificateService) List(ctx context.Context) ([]model.Certificate, error) {
	out, err := s.certs.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list certificates", err)
	}
	return out, nil
}

// Verify resolves a certificate by its public code.
func (s *CertificateService) Verify(ctx context.Context, code string) (*model.Certificate, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Validation("verification code is required")
	}
	cert, err := s.certs.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("certificate not found")
		}
		return nil, apperr.Internal("verify certificate", err)
	}
	return cert, nil
}
