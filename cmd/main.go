// cmd/main.go is the application entry point.
// It wires together all layers, starts the outbox worker, and runs the HTTP
// server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/upskillhq/workshop-platform/internal/billing"
	"github.com/upskillhq/workshop-platform/internal/config"
	"github.com/upskillhq/workshop-platform/internal/database"
	"github.com/upskillhq/workshop-platform/internal/gateway"
	"github.com/upskillhq/workshop-platform/internal/handler"
	"github.com/upskillhq/workshop-platform/internal/logging"
	"github.com/upskillhq/workshop-platform/internal/mail"
	"github.com/upskillhq/workshop-platform/internal/outbox"
	"github.com/upskillhq/workshop-platform/internal/repository"
	"github.com/upskillhq/workshop-platform/internal/service"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration and logging ─────────────────────────────────────
	cfg, err := config.Load(getEnv("CONFIG_DIR", "./configs"), getEnv("APP_ENV", "local"))
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.Init("workshop-platform", cfg.App.LogFile)

	// ── 2. Connect to PostgreSQL and apply the schema ─────────────────────
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema", "error", err)
		os.Exit(1)
	}
	log.Info("connected to postgres")

	// ── 3. Wire up layers ────────────────────────────────────────────────
	workshopRepo := repository.NewWorkshopRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	trainerRepo := repository.NewTrainerRepository(pool)
	testimonialRepo := repository.NewTestimonialRepository(pool)
	faqRepo := repository.NewFAQRepository(pool)
	planRepo := repository.NewPricingPlanRepository(pool)
	scholarshipRepo := repository.NewScholarshipRepository(pool)
	certRepo := repository.NewCertificateRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	if err := bootstrapAdmin(ctx, adminRepo, log); err != nil {
		log.Error("bootstrap admin", "error", err)
		os.Exit(1)
	}

	gw := gateway.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	renderer := billing.NewRenderer(billing.CompanyInfo{
		Name:    cfg.Billing.CompanyName,
		Address: cfg.Billing.CompanyAddress,
		GSTIN:   cfg.Billing.CompanyGSTIN,
	})
	mailer, err := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		AdminEmail: cfg.Billing.AdminEmail,
	})
	if err != nil {
		log.Error("mailer", "error", err)
		os.Exit(1)
	}

	paymentSvc := service.NewPaymentService(regRepo, certRepo, outboxRepo, gw, renderer,
		service.PaymentConfig{
			KeyID:      cfg.Razorpay.KeyID,
			KeySecret:  cfg.Razorpay.KeySecret,
			GSTPercent: cfg.Billing.GSTPercent,
		}, logging.New("payments"))
	workshopSvc := service.NewWorkshopService(workshopRepo)
	regAdminSvc := service.NewRegistrationAdminService(regRepo)
	catalogSvc := service.NewCatalogService(trainerRepo, testimonialRepo, faqRepo, planRepo)
	scholarshipSvc := service.NewScholarshipService(scholarshipRepo, workshopRepo)
	certSvc := service.NewCertificateService(certRepo)
	authSvc := service.NewAuthService(adminRepo, service.AuthConfig{
		JWTSecret: cfg.Security.JWTSecret,
		Issuer:    cfg.Security.Issuer,
		TokenTTL:  cfg.Security.TokenTTL,
	})

	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	workshopHandler := handler.NewWorkshopHandler(workshopSvc, regAdminSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	scholarshipHandler := handler.NewScholarshipHandler(scholarshipSvc)
	certHandler := handler.NewCertificateHandler(certSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	authz := handler.NewAuthz(cfg.Security.JWTSecret, cfg.Security.Issuer)

	// ── 4. Outbox worker ─────────────────────────────────────────────────
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	worker := outbox.NewWorker(outboxRepo, regRepo, renderer, mailer, outbox.Config{
		PollInterval: cfg.Outbox.PollInterval,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
		PendingTTL:   cfg.Outbox.PendingTTL,
		GSTPercent:   cfg.Billing.GSTPercent,
	}, logging.New("outbox"))
	go worker.Run(workerCtx)

	// ── 5. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.Metrics)         // request counter + latency histogram
	r.Use(handler.CORS)            // the frontend is hosted separately

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", authHandler.Login)

	// Public checkout flow.
	r.Route("/payments", func(r chi.Router) {
		r.Post("/create-order", paymentHandler.CreateOrder)
		r.Post("/verify", paymentHandler.Verify)
		r.Post("/failure", paymentHandler.Failure)
		r.Get("/bill/{registrationID}", paymentHandler.DownloadBill)
	})

	// Public reads of the catalog.
	r.Get("/workshops", workshopHandler.List)
	r.Get("/workshops/{id}", workshopHandler.Get)
	r.Get("/trainers", catalogHandler.ListTrainers)
	r.Get("/trainers/{id}", catalogHandler.GetTrainer)
	r.Get("/testimonials", catalogHandler.ListTestimonials)
	r.Get("/faqs", catalogHandler.ListFAQs)
	r.Get("/pricing-plans", catalogHandler.ListPricingPlans)

	r.Post("/scholarships", scholarshipHandler.Apply)
	r.Get("/certificates/verify/{code}", certHandler.Verify)

	// Admin surface, behind the bearer token.
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAdmin)

		r.Post("/workshops", workshopHandler.Create)
		r.Get("/workshops/stats", workshopHandler.Stats)
		r.Put("/workshops/{id}", workshopHandler.Update)
		r.Delete("/workshops/{id}", workshopHandler.Delete)

		r.Get("/registrations", workshopHandler.ListRegistrations)
		r.Get("/registrations/{id}", workshopHandler.GetRegistration)
		r.Delete("/registrations/{id}", workshopHandler.DeleteRegistration)
		r.Post("/registrations/{id}/refund", paymentHandler.Refund)

		r.Post("/trainers", catalogHandler.CreateTrainer)
		r.Put("/trainers/reorder", catalogHandler.ReorderTrainers)
		r.Put("/trainers/{id}", catalogHandler.UpdateTrainer)
		r.Delete("/trainers/{id}", catalogHandler.DeleteTrainer)

		r.Post("/testimonials", catalogHandler.CreateTestimonial)
		r.Put("/testimonials/reorder", catalogHandler.ReorderTestimonials)
		r.Put("/testimonials/{id}", catalogHandler.UpdateTestimonial)
		r.Delete("/testimonials/{id}", catalogHandler.DeleteTestimonial)

		r.Post("/faqs", catalogHandler.CreateFAQ)
		r.Put("/faqs/reorder", catalogHandler.ReorderFAQs)
		r.Put("/faqs/{id}", catalogHandler.UpdateFAQ)
		r.Delete("/faqs/{id}", catalogHandler.DeleteFAQ)

		r.Post("/pricing-plans", catalogHandler.CreatePricingPlan)
		r.Put("/pricing-plans/reorder", catalogHandler.ReorderPricingPlans)
		r.Put("/pricing-plans/{id}", catalogHandler.UpdatePricingPlan)
		r.Delete("/pricing-plans/{id}", catalogHandler.DeletePricingPlan)

		r.Get("/scholarships", scholarshipHandler.List)
		r.Put("/scholarships/{id}", scholarshipHandler.Review)

		r.Get("/certificates", certHandler.List)
	})

	// ── 6. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server listening", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopWorker()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// bootstrapAdmin creates the initial login if ADMIN_EMAIL and ADMIN_PASSWORD
// are set and no admin with that email exists yet. Lets a fresh deployment
// log in without touching the database by hand.
func bootstrapAdmin(ctx context.Context, admins *repository.AdminRepository, log *slog.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	if _, err := admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := admins.Create(ctx, email, string(hash)); err != nil {
		return err
	}
	log.Info("bootstrap admin created", "email", email)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
