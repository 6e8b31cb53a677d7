package routes

import (
	"net/http"
	"time"

	"ptaconnect/handlers"
	"ptaconnect/middleware"
	"ptaconnect/models"
	"ptaconnect/services/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Per-endpoint rate budgets. The coarse per-IP limiter in middleware guards
// the whole surface; these budgets protect the expensive endpoints.
const (
	paymentBudget      = 10
	consentBudget      = 30
	verificationBudget = 5
	dataRequestBudget  = 3
	budgetWindow       = time.Minute
)

// RegisterMemberRoutes registers account and directory endpoints.
func RegisterMemberRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *ratelimit.Limiter) {
	api := r.Group("/api/members")
	{
		api.POST("/register", middleware.DomainRateLimit(limiter, consentBudget, budgetWindow), hb.RegisterHandler)
		api.POST("/login", middleware.DomainRateLimit(limiter, consentBudget, budgetWindow), hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.GetProfileHandler)
		api.PATCH("/me", hb.UpdateProfileHandler)
		api.GET("/directory", hb.DirectoryHandler)
		api.POST("/devices", hb.RegisterDeviceHandler)
	}
}

// RegisterPaymentRoutes registers dues and donation endpoints. The webhook is
// outside the group: Stripe authenticates with a signature, not a token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *ratelimit.Limiter) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/intent", middleware.DomainRateLimit(limiter, paymentBudget, budgetWindow), hb.CreatePaymentIntentHandler)
		api.GET("", hb.ListPaymentsHandler)
	}

	r.POST("/api/webhooks/stripe", hb.StripeWebhookHandler)
}

// RegisterPrivacyRoutes registers consent, COPPA, and data-request endpoints.
func RegisterPrivacyRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *ratelimit.Limiter) {
	api := r.Group("/api/privacy")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/consent", middleware.DomainRateLimit(limiter, consentBudget, budgetWindow), hb.RecordConsentHandler)
		api.GET("/consent/:type", hb.CurrentConsentHandler)
		api.GET("/consent", hb.ConsentHistoryHandler)

		api.POST("/coppa/verify-parent", middleware.DomainRateLimit(limiter, verificationBudget, budgetWindow), hb.VerifyParentHandler)
		api.POST("/coppa/documents", middleware.DomainRateLimit(limiter, verificationBudget, budgetWindow), hb.UploadDocumentHandler)

		api.GET("/settings", hb.GetPrivacySettingsHandler)
		api.PATCH("/settings", hb.UpdatePrivacySettingsHandler)

		api.POST("/export", middleware.DomainRateLimit(limiter, dataRequestBudget, budgetWindow), hb.RequestExportHandler)
		api.POST("/delete", middleware.DomainRateLimit(limiter, dataRequestBudget, budgetWindow), hb.RequestDeletionHandler)
		api.GET("/requests/:id", hb.DataRequestStatusHandler)
	}
}

// RegisterEventRoutes registers event, RSVP, and volunteer endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListEventsHandler)
		api.GET("/:id", hb.GetEventHandler)
		api.POST("/:id/rsvp", hb.RSVPHandler)
		api.POST("/:id/volunteer/:slotId", hb.VolunteerHandler)
		api.DELETE("/:id/volunteer/:slotId", hb.WithdrawVolunteerHandler)

		board := api.Group("")
		board.Use(middleware.RequireRole(models.RoleBoard, "Unauthorized to manage events"))
		board.POST("", hb.CreateEventHandler)
	}
}

// RegisterAnnouncementRoutes registers announcement endpoints. Sending is a
// board action; reading is open to any member.
func RegisterAnnouncementRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/announcements")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.RecentAnnouncementsHandler)

		board := api.Group("")
		board.Use(middleware.RequireRole(models.RoleBoard, "Unauthorized to send emails"))
		board.POST("", hb.SendAnnouncementHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware())
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin, "Unauthorized"))
		adminGroup.POST("/members/role", hb.SetRoleHandler)
	}
}

// RegisterCronRoutes sets up scheduled maintenance endpoints, gated behind the
// shared cron secret instead of member auth.
func RegisterCronRoutes(r *gin.Engine, hb *handlers.HandlerBundle, cronSecret string) {
	cronGroup := r.Group("/api/cron")
	{
		cronGroup.Use(middleware.CronAuthMiddleware(cronSecret))
		cronGroup.POST("/requeue-stale", hb.RequeueStaleHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *ratelimit.Limiter, cronSecret string) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterMemberRoutes(r, hb, limiter)
	RegisterPaymentRoutes(r, hb, limiter)
	RegisterPrivacyRoutes(r, hb, limiter)
	RegisterEventRoutes(r, hb)
	RegisterAnnouncementRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterCronRoutes(r, hb, cronSecret)
	RegisterHealthRoute(r)
}
