// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

// WorkshopService orchestrates workshop CRUD and stats.
type WorkshopService struct {
	workshops *repository.WorkshopRepository
}

// NewWorkshopService constructs a WorkshopService.
func NewWorkshopService(workshops *repository.WorkshopRepository) *WorkshopService {
	return &WorkshopService{workshops: workshops}
}

// Create validates the request and delegates to the repository.
func (s *WorkshopService) Create(ctx context.Context, req model.UpsertWorkshopRequest) (*model.Workshop, error) {
	w, err := workshopFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.workshops.Create(ctx, *w)
	if err != nil {
		return nil, apperr.Internal("create workshop", err)
	}
	return created, nil
}

// List returns all workshops in display order.
func (s *WorkshopService) List(ctx context.Context) ([]model.Workshop, error) {
	ws, err := s.workshops.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list workshops", err)
	}
	return ws, nil
}

// Get returns a single workshop by ID.
func (s *WorkshopService) Get(ctx context.Context, id string) (*model.Workshop, error) {
	if id == "" {
		return nil, apperr.Validation("workshop id is required")
	}
	w, err := s.workshops.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("workshop not found")
		}
		return nil, apperr.Internal("get workshop", err)
	}
	return w, nil
}

// Update validates and overwrites a workshop's mutable fields.
func (s *WorkshopService) Update(ctx context.Context, id string, req model.UpsertWorkshopRequest) (*model.Workshop, error) {
	if id == "" {
		return nil, apperr.Validation("workshop id is required")
	}
	w, err := workshopFromRequest(req)
	if err != nil {
		return nil, err
	}
	w.ID = id
	updated, err := s.workshops.Update(ctx, *w)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("workshop not found")
		}
		return nil, apperr.Internal("update workshop", err)
	}
	return updated, nil
}

// Delete removes a workshop.
func (s *WorkshopService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("workshop id is required")
	}
	if err := s.workshops.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("workshop not found")
		}
		return apperr.Internal("delete workshop", err)
	}
	return nil
}

// Stats aggregates enrollment and revenue figures.
func (s *WorkshopService) Stats(ctx context.Context) (*model.WorkshopStats, error) {
	stats, err := s.workshops.Stats(ctx)
	if err != nil {
		return nil, apperr.Internal("workshop stats", err)
	}
	return stats, nil
}

func workshopFromRequest(req model.UpsertWorkshopRequest) (*model.Workshop, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, apperr.Validation("starts_at must be an RFC 3339 timestamp")
	}
	mode := req.Mode
	if mode == "" {
		mode = "online"
	}
	durationDays := req.DurationDays
	if durationDays == 0 {
		durationDays = 1
	}
	return &model.Workshop{
		Title:        req.Title,
		Description:  req.Description,
		TrainerID:    req.TrainerID,
		Price:        req.Price,
		Capacity:     req.Capacity,
		StartsAt:     startsAt.UTC(),
		DurationDays: durationDays,
		Mode:         mode,
		DisplayOrder: req.DisplayOrder,
	}, nil
}

// RegistrationAdminService exposes the administrative view of registrations.
type RegistrationAdminService struct {
	regs *repository.RegistrationRepository
}

// NewRegistrationAdminService constructs a RegistrationAdminService.
func NewRegistrationAdminService(regs *repository.RegistrationRepository) *RegistrationAdminService {
	return &RegistrationAdminService{regs: regs}
}

// List returns registrations, optionally filtered by workshop.
func (s *RegistrationAdminService) List(ctx context.Context, workshopID string) ([]model.Registration, error) {
	regs, err := s.regs.List(ctx, workshopID)
	if err != nil {
		return nil, apperr.Internal("list registrations", err)
	}
	return regs, nil
}

// Get returns one registration.
func (s *RegistrationAdminService) Get(ctx context.Context, id string) (*model.Registration, error) {
	if id == "" {
		return nil, apperr.Validation("registration id is required")
	}
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("registration not found")
		}
		return nil, apperr.Internal("get registration", err)
	}
	return reg, nil
}

// Delete removes a registration and releases its seat.
func (s *RegistrationAdminService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("registration id is required")
	}
	if err := s.regs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("registration not found")
		}
		return apperr.Internal("delete registration", err)
	}
	return nil
}
