package service

import (
	"context"
	"errors"

	"github.com/upskillhq/workshop-platform/internal/apperr"
	"github.com/upskillhq/workshop-platform/internal/model"
	"github.com/upskillhq/workshop-platform/internal/repository"
)

// CatalogService groups the marketing-site collections: trainers,
// testimonials, FAQs, and pricing plans. All follow the same CRUD + reorder
// shape, so one service holds them.
type CatalogService struct {
	trainers     *repository.TrainerRepository
	testimonials *repository.TestimonialRepository
	faqs         *repository.FAQRepository
	plans        *repository.PricingPlanRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(
	trainers *repository.TrainerRepository,
	testimonials *repository.TestimonialRepository,
	faqs *repository.FAQRepository,
	plans *repository.PricingPlanRepository,
) *CatalogService {
	return &CatalogService{
		trainers: trainers, testimonials: testimonials, faqs: faqs, plans: plans,
	}
}

func mapRepoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(op + ": not found")
	}
	return apperr.Internal(op, err)
}

// ─── Trainers ────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateTrainer(ctx context.Context, req model.UpsertTrainerRequest) (*model.Trainer, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	t, err := s.trainers.Create(ctx, model.Trainer{
		Name: req.Name, Title: req.Title, Bio: req.Bio,
		PhotoURL: req.PhotoURL, LinkedinURL: req.LinkedinURL, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, apperr.Internal("create trainer", err)
	}
	return t, nil
}

func (s *CatalogService) ListTrainers(ctx context.Context) ([]model.Trainer, error) {
	out, err := s.trainers.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list trainers", err)
	}
	return out, nil
}

func (s *CatalogService) GetTrainer(ctx context.Context, id string) (*model.Trainer, error) {
	t, err := s.trainers.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr("get trainer", err)
	}
	return t, nil
}

func (s *CatalogService) UpdateTrainer(ctx context.Context, id string, req model.UpsertTrainerRequest) (*model.Trainer, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	t, err := s.trainers.Update(ctx, model.Trainer{
		ID: id, Name: req.Name, Title: req.Title, Bio: req.Bio,
		PhotoURL: req.PhotoURL, LinkedinURL: req.LinkedinURL, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, mapRepoErr("update trainer", err)
	}
	return t, nil
}

func (s *CatalogService) DeleteTrainer(ctx context.Context, id string) error {
	if err := s.trainers.Delete(ctx, id); err != nil {
		return mapRepoErr("delete trainer", err)
	}
	return nil
}

func (s *CatalogService) ReorderTrainers(ctx context.Context, req model.ReorderRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	if err := s.trainers.Reorder(ctx, req.IDs); err != nil {
		return mapRepoErr("reorder trainers", err)
	}
	return nil
}

// ─── Testimonials ────────────────────────────────────────────────────────────

func (s *CatalogService) CreateTestimonial(ctx context.Context, req model.UpsertTestimonialRequest) (*model.Testimonial, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	t, err := s.testimonials.Create(ctx, model.Testimonial{
		Author: req.Author, Role: req.Role, Company: req.Company,
		Quote: req.Quote, Rating: req.Rating, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, apperr.Internal("create testimonial", err)
	}
	return t, nil
}

func (s *CatalogService) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	out, err := s.testimonials.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list testimonials", err)
	}
	return out, nil
}

func (s *CatalogService) UpdateTestimonial(ctx context.Context, id string, req model.UpsertTestimonialRequest) (*model.Testimonial, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	t, err := s.testimonials.Update(ctx, model.Testimonial{
		ID: id, Author: req.Author, Role: req.Role, Company: req.Company,
		Quote: req.Quote, Rating: req.Rating, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, mapRepoErr("update testimonial", err)
	}
	return t, nil
}

func (s *CatalogService) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.testimonials.Delete(ctx, id); err != nil {
		return mapRepoErr("delete testimonial", err)
	}
	return nil
}

func (s *CatalogService) ReorderTestimonials(ctx context.Context, req model.ReorderRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	if err := s.testimonials.Reorder(ctx, req.IDs); err != nil {
		return mapRepoErr("reorder testimonials", err)
	}
	return nil
}

// ─── FAQs ────────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateFAQ(ctx context.Context, req model.UpsertFAQRequest) (*model.FAQ, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	f, err := s.faqs.Create(ctx, model.FAQ{
		Question: req.Question, Answer: req.Answer, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, apperr.Internal("create faq", err)
	}
	return f, nil
}

func (s *CatalogService) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	out, err := s.faqs.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list faqs", err)
	}
	return out, nil
}

func (s *CatalogService) UpdateFAQ(ctx context.Context, id string, req model.UpsertFAQRequest) (*model.FAQ, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	f, err := s.faqs.Update(ctx, model.FAQ{
		ID: id, Question: req.Question, Answer: req.Answer, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, mapRepoErr("update faq", err)
	}
	return f, nil
}

func (s *CatalogService) DeleteFAQ(ctx context.Context, id string) error {
	if err := s.faqs.Delete(ctx, id); err != nil {
		return mapRepoErr("delete faq", err)
	}
	return nil
}

func (s *CatalogService) ReorderFAQs(ctx context.Context, req model.ReorderRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	if err := s.faqs.Reorder(ctx, req.IDs); err != nil {
		return mapRepoErr("reorder faqs", err)
	}
	return nil
}

// ─── Pricing plans ───────────────────────────────────────────────────────────

func (s *CatalogService) CreatePricingPlan(ctx context.Context, req model.UpsertPricingPlanRequest) (*model.PricingPlan, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	p, err := s.plans.Create(ctx, model.PricingPlan{
		Name: req.Name, Price: req.Price, Period: req.Period,
		Features: req.Features, Highlighted: req.Highlighted, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, apperr.Internal("create pricing plan", err)
	}
	return p, nil
}

func (s *CatalogService) ListPricingPlans(ctx context.Context) ([]model.PricingPlan, error) {
	out, err := s.plans.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list pricing plans", err)
	}
	return out, nil
}

func (s *CatalogService) UpdatePricingPlan(ctx context.Context, id string, req model.UpsertPricingPlanRequest) (*model.PricingPlan, error) {
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	p, err := s.plans.Update(ctx, model.PricingPlan{
		ID: id, Name: req.Name, Price: req.Price, Period: req.Period,
		Features: req.Features, Highlighted: req.Highlighted, DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return nil, mapRepoErr("update pricing plan", err)
	}
	return p, nil
}

func (s *CatalogService) DeletePricingPlan(ctx context.Context, id string) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return mapRepoErr("delete pricing plan", err)
	}
	return nil
}

func (s *CatalogService) ReorderPricingPlans(ctx context.Context, req model.ReorderRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	if err := s.plans.Reorder(ctx, req.IDs); err != nil {
		return mapRepoErr("reorder pricing plans", err)
	}
	return nil
}
