package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/approval"
	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/auth"
	"github.com/conley21p/alpine-outdoor-living/internal/blob"
	"github.com/conley21p/alpine-outdoor-living/internal/calendar"
	"github.com/conley21p/alpine-outdoor-living/internal/config"
	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/database"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/ratelimit"
	"github.com/conley21p/alpine-outdoor-living/internal/sms"
	"github.com/conley21p/alpine-outdoor-living/internal/store/postgres"
	"github.com/conley21p/alpine-outdoor-living/internal/web"
	"github.com/conley21p/alpine-outdoor-living/internal/web/handlers"
	"github.com/conley21p/alpine-outdoor-living/internal/web/render"
	"github.com/conley21p/alpine-outdoor-living/migrations"
	"github.com/conley21p/alpine-outdoor-living/static"
	"github.com/conley21p/alpine-outdoor-living/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database
	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Migrations
	if err := database.RunMigrations(migrations.FS, cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Stores
	userStore := postgres.NewUserStore(db)
	sessionStore := postgres.NewSessionStore(db)
	contactStore := postgres.NewContactStore(db)
	leadStore := postgres.NewLeadStore(db)
	appointmentStore := postgres.NewAppointmentStore(db)
	jobStore := postgres.NewJobStore(db)
	employeeStore := postgres.NewEmployeeStore(db)
	emailQueueStore := postgres.NewEmailQueueStore(db)
	paymentStore := postgres.NewPaymentRequestStore(db)
	agentLogStore := postgres.NewAgentLogStore(db)
	reviewStore := postgres.NewReviewStore(db)

	// Outbound transports
	sender := mail.NewSenderFromConfig(cfg)
	emailTemplates := mail.NewTemplates(cfg.Site)

	var texter sms.Sender = &sms.NoopSender{}
	if cfg.SMSEnabled() {
		texter = sms.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	var syncer calendar.Syncer = &calendar.NoopSyncer{}
	if cfg.CalendarEnabled() {
		gs, err := calendar.NewGoogleSyncer(ctx, cfg.GoogleServiceAccountEmail, cfg.GoogleServiceAccountKey, "")
		if err != nil {
			slog.Error("failed to init calendar sync", "error", err)
			os.Exit(1)
		}
		syncer = gs
	}

	// Blob storage for job photos
	blobStore, err := blob.NewFromConfig(ctx, blob.Config{
		Backend:           cfg.BlobBackend,
		FSRoot:            cfg.BlobFSRoot,
		S3Bucket:          cfg.S3Bucket,
		S3Region:          cfg.S3Region,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		slog.Error("failed to init blob storage", "error", err)
		os.Exit(1)
	}

	// Services
	authService := auth.NewService(userStore, sessionStore, cfg.SessionMaxAge)
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to ensure admin account", "error", err)
		os.Exit(1)
	}

	auditor := audit.NewWriter(agentLogStore)
	signer := approval.NewSigner(cfg.PaymentWebhookSecret)

	contactService := crm.NewContactService(contactStore, auditor)
	leadService := crm.NewLeadService(leadStore, contactService, sender, emailTemplates, auditor, cfg.AdminEmail)
	appointmentService := crm.NewAppointmentService(appointmentStore, contactStore, leadStore, employeeStore,
		syncer, sender, emailTemplates, auditor, cfg.GoogleCalendarID)
	jobService := crm.NewJobService(jobStore, contactStore, auditor)
	employeeService := crm.NewEmployeeService(employeeStore)
	emailService := crm.NewEmailService(emailQueueStore, sender, emailTemplates, auditor, cfg.AdminEmail, cfg.Site.BaseURL)
	paymentService := crm.NewPaymentService(paymentStore, signer, sender, emailTemplates, texter, auditor,
		cfg.AdminEmail, cfg.PaymentNotifyPhone, cfg.Site.BaseURL, cfg.Site.BusinessName)
	dashboardService := crm.NewDashboardService(leadStore, appointmentStore, jobStore, emailQueueStore, paymentStore)

	// Rate limiter
	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Renderer
	renderer := render.NewRenderer(templates.FS, cfg.Site)

	// Handlers
	siteHandler := handlers.NewSiteHandler(renderer, reviewStore, jobStore, blobStore)
	authHandler := handlers.NewAuthHandler(authService, renderer, cfg.SecureCookies)
	adminHandler := handlers.NewAdminHandler(renderer, dashboardService, contactService, leadService,
		appointmentService, jobService, employeeService, emailService, paymentService,
		agentLogStore, blobStore, cfg.SecureCookies)
	agentHandler := handlers.NewAgentHandler(contactService, leadService, appointmentService,
		jobService, emailService, paymentService, agentLogStore, auditor)
	publicAPIHandler := handlers.NewPublicAPIHandler(leadService)
	webhookHandler := handlers.NewPaymentWebhookHandler(paymentService, cfg.Site)

	// Router
	router := web.NewRouter(web.RouterDeps{
		SiteHandler:           siteHandler,
		AuthHandler:           authHandler,
		AdminHandler:          adminHandler,
		AgentHandler:          agentHandler,
		PublicAPIHandler:      publicAPIHandler,
		PaymentWebhookHandler: webhookHandler,
		AuthService:           authService,
		Limiter:               limiter,
		AgentAPIKey:           cfg.AgentAPIKey,
		StaticFS:              static.FS,
	})

	// Session cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionStore.DeleteExpiredSessions(context.Background()); err != nil {
				slog.Error("failed to clean up expired sessions", "error", err)
			}
		}
	}()

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("alpine-outdoor-living starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
