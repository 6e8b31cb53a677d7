package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ptaconnect/config"
	"ptaconnect/cron"
	"ptaconnect/database"
	announcementRepoPkg "ptaconnect/database/repository/announcement"
	auditRepoPkg "ptaconnect/database/repository/audit"
	consentRepoPkg "ptaconnect/database/repository/consent"
	eventRepoPkg "ptaconnect/database/repository/event"
	memberRepoPkg "ptaconnect/database/repository/member"
	paymentRepoPkg "ptaconnect/database/repository/payment"
	privacyRepoPkg "ptaconnect/database/repository/privacy"
	"ptaconnect/handlers"
	"ptaconnect/middleware"
	"ptaconnect/routes"
	announcementSvc "ptaconnect/services/announcement"
	auditSvc "ptaconnect/services/audit"
	consentSvc "ptaconnect/services/consent"
	eventSvc "ptaconnect/services/event"
	"ptaconnect/services/mailer"
	memberSvc "ptaconnect/services/member"
	"ptaconnect/services/notification"
	paymentSvc "ptaconnect/services/payment"
	privacySvc "ptaconnect/services/privacy"
	"ptaconnect/services/ratelimit"
	storageSvc "ptaconnect/services/storage"
	"ptaconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.InitRateLimitStore()
	utils.FirebaseInit()

	cloudinaryClient, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeSecretKey

	// repositories.
	memberRepo := memberRepoPkg.NewMongoMemberRepo()
	consentRepo := consentRepoPkg.NewMongoConsentRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	privacyRepo := privacyRepoPkg.NewMongoPrivacyRepo()
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	announcementRepo := announcementRepoPkg.NewMongoAnnouncementRepo()
	auditRepo := auditRepoPkg.NewMongoAuditRepo()

	// services.
	auditLogger := auditSvc.NewLogger(auditRepo, logger)
	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(utils.GetRateLimitClient()), logger)
	gateway := paymentSvc.NewStripeGateway()
	queue := cron.NewQueue()
	defer queue.Close()

	memberService := &memberSvc.DefaultMemberService{
		Repo:        memberRepo,
		PrivacyRepo: privacyRepo,
		Audit:       auditLogger,
	}

	paymentService := &paymentSvc.DefaultPaymentService{
		Repo:    paymentRepo,
		Gateway: gateway,
		Audit:   auditLogger,
		Logger:  logger,
	}

	consentService := &consentSvc.DefaultConsentService{
		Repo:        consentRepo,
		PrivacyRepo: privacyRepo,
		MemberRepo:  memberRepo,
		Gateway:     gateway,
		Audit:       auditLogger,
	}

	privacyService := &privacySvc.DefaultPrivacyService{
		Repo:        privacyRepo,
		MemberRepo:  memberRepo,
		ConsentRepo: consentRepo,
		PaymentRepo: paymentRepo,
		EventRepo:   eventRepo,
		Queue:       queue,
		Audit:       auditLogger,
		Logger:      logger,
	}

	eventService := &eventSvc.DefaultEventService{
		Repo:  eventRepo,
		Audit: auditLogger,
	}

	notificationService, err := notification.NewDefaultNotificationService(memberRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	announcementService := &announcementSvc.DefaultAnnouncementService{
		Repo:       announcementRepo,
		MemberRepo: memberRepo,
		ConsentSvc: consentService,
		Notifier:   notificationService,
		Queue:      queue,
		Audit:      auditLogger,
		Logger:     logger,
	}

	storageService := storageSvc.NewStorageService(cloudinaryClient)
	mailService := mailer.NewSMTPMailer()

	// Background task worker: emails and export/deletion jobs.
	cron.InitTaskWorker(mailService, privacyService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Member endpoints.
		RegisterHandler:       handlers.RegisterHandler(memberService),
		LoginHandler:          handlers.LoginHandler(memberService),
		GetProfileHandler:     handlers.GetProfileHandler(memberService),
		UpdateProfileHandler:  handlers.UpdateProfileHandler(memberService),
		DirectoryHandler:      handlers.DirectoryHandler(memberService),
		RegisterDeviceHandler: handlers.RegisterDeviceHandler(memberService),
		SetRoleHandler:        handlers.SetRoleHandler(memberService),

		// Payment endpoints.
		CreatePaymentIntentHandler: handlers.CreatePaymentIntentHandler(paymentService),
		ListPaymentsHandler:        handlers.ListPaymentsHandler(paymentService),
		StripeWebhookHandler:       handlers.StripeWebhookHandler(paymentService, config.AppConfig.StripeWebhookSecret),

		// Consent and COPPA endpoints.
		RecordConsentHandler:  handlers.RecordConsentHandler(consentService),
		ConsentHistoryHandler: handlers.ConsentHistoryHandler(consentService),
		CurrentConsentHandler: handlers.CurrentConsentHandler(consentService),
		VerifyParentHandler:   handlers.VerifyParentHandler(consentService),
		UploadDocumentHandler: handlers.UploadDocumentHandler(storageService),

		// Privacy endpoints.
		GetPrivacySettingsHandler:    handlers.GetPrivacySettingsHandler(privacyService),
		UpdatePrivacySettingsHandler: handlers.UpdatePrivacySettingsHandler(privacyService),
		RequestExportHandler:         handlers.RequestExportHandler(privacyService),
		RequestDeletionHandler:       handlers.RequestDeletionHandler(privacyService),
		DataRequestStatusHandler:     handlers.DataRequestStatusHandler(privacyService),

		// Event endpoints.
		CreateEventHandler:       handlers.CreateEventHandler(eventService),
		GetEventHandler:          handlers.GetEventHandler(eventService),
		ListEventsHandler:        handlers.ListEventsHandler(eventService),
		RSVPHandler:              handlers.RSVPHandler(eventService),
		VolunteerHandler:         handlers.VolunteerHandler(eventService),
		WithdrawVolunteerHandler: handlers.WithdrawVolunteerHandler(eventService),

		// Announcement endpoints.
		SendAnnouncementHandler:    handlers.SendAnnouncementHandler(announcementService),
		RecentAnnouncementsHandler: handlers.RecentAnnouncementsHandler(announcementService),

		// Scheduled maintenance.
		RequeueStaleHandler: handlers.RequeueStaleHandler(privacyService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle, limiter, config.AppConfig.CronSecret)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
