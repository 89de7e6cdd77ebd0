package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flastal/flastal-backend/internal/config"
	"github.com/flastal/flastal-backend/internal/http/handlers"
	"github.com/flastal/flastal-backend/internal/http/middleware"
	"github.com/flastal/flastal-backend/internal/models"
	"github.com/flastal/flastal-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	pledgeHandler *handlers.PledgeHandler,
	floristHandler *handlers.FloristHandler,
	offerHandler *handlers.OfferHandler,
	quotationHandler *handlers.QuotationHandler,
	payoutHandler *handlers.PayoutHandler,
	paymentHandler *handlers.PaymentHandler,
	adminHandler *handlers.AdminHandler,
	notificationHandler *handlers.NotificationHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	auth := middleware.AuthMiddleware(tokenManager)
	optionalAuth := middleware.OptionalAuth(tokenManager)
	fanOnly := middleware.RequireRole(models.RoleFan, models.RoleAdmin)
	floristOnly := middleware.RequireRole(models.RoleFlorist)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/fans/register", authHandler.RegisterFan)
		authGroup.POST("/fans/login", authHandler.LoginFan)
		authGroup.POST("/florists/register", authHandler.RegisterFlorist)
		authGroup.POST("/florists/login", authHandler.LoginFlorist)
		authGroup.POST("/refresh", authHandler.Refresh)
	}
	api.GET("/auth/me", auth, authHandler.Me)

	// Public catalog.
	api.GET("/projects", projectHandler.List)
	api.GET("/projects/:id", middleware.UUIDValidator("id"), optionalAuth, projectHandler.Get)
	api.GET("/projects/:id/pledges", middleware.UUIDValidator("id"), pledgeHandler.List)
	api.GET("/projects/:id/tiers", middleware.UUIDValidator("id"), pledgeHandler.ListTiers)
	api.GET("/florists", floristHandler.List)
	api.GET("/florists/:id", middleware.UUIDValidator("id"), optionalAuth, floristHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Pledging is open to guests; the rate limit shields the ledger
	// from bursts.
	api.POST("/projects/:id/pledges",
		middleware.UUIDValidator("id"),
		middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod),
		optionalAuth,
		pledgeHandler.Create,
	)

	// Payment gateway webhook, authenticated by HMAC signature.
	api.POST("/webhooks/payment",
		middleware.RateLimitMiddleware(cfg.RateLimitLimit*10, cfg.RateLimitPeriod),
		paymentHandler.Webhook,
	)

	// Planner routes.
	planner := api.Group("/")
	planner.Use(auth, fanOnly)
	{
		planner.POST("/projects", projectHandler.Create)
		planner.GET("/projects/mine", projectHandler.ListMine)
		planner.POST("/projects/:id/complete", middleware.UUIDValidator("id"), projectHandler.Complete)
		planner.POST("/projects/:id/cancel", middleware.UUIDValidator("id"), projectHandler.Cancel)
		planner.PUT("/projects/:id/tiers", middleware.UUIDValidator("id"), pledgeHandler.SetTiers)
		planner.POST("/projects/:id/offers", middleware.UUIDValidator("id"), offerHandler.Create)
		planner.POST("/projects/:id/media", middleware.UUIDValidator("id"), mediaHandler.Upload)
		planner.POST("/quotations/:id/approve", middleware.UUIDValidator("id"), quotationHandler.Approve)
	}

	// Shared authenticated routes.
	authed := api.Group("/")
	authed.Use(auth)
	{
		authed.GET("/projects/:id/offers/accepted", middleware.UUIDValidator("id"), offerHandler.GetAccepted)
		authed.GET("/projects/:id/quotations", middleware.UUIDValidator("id"), quotationHandler.Get)
		authed.GET("/payments/balance", paymentHandler.Balance)
		authed.GET("/payments/transactions", paymentHandler.Transactions)
		authed.GET("/notifications", notificationHandler.List)
		authed.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		authed.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	// Florist routes.
	florist := api.Group("/")
	florist.Use(auth, floristOnly)
	{
		florist.GET("/florists/me/offers", floristHandler.ListOffers)
		florist.POST("/offers/:id/respond", middleware.UUIDValidator("id"), floristHandler.RespondOffer)
		florist.POST("/projects/:id/quotations", middleware.UUIDValidator("id"), quotationHandler.Submit)
		florist.POST("/quotations/:id/finalize", middleware.UUIDValidator("id"), quotationHandler.Finalize)
		florist.POST("/payouts", payoutHandler.Create)
		florist.GET("/payouts", payoutHandler.ListMine)
	}

	// Admin routes.
	admin := api.Group("/admin")
	admin.Use(auth, adminOnly)
	{
		admin.GET("/projects", adminHandler.ListPendingProjects)
		admin.POST("/projects/:id/review", middleware.UUIDValidator("id"), adminHandler.ReviewProject)
		admin.GET("/accounts/:type", adminHandler.ListPendingAccounts)
		admin.POST("/accounts/:type/:id/review", middleware.UUIDValidator("id"), adminHandler.ReviewAccount)
		admin.GET("/florists", adminHandler.ListFlorists)
		admin.PUT("/florists/:id/fee-rate", middleware.UUIDValidator("id"), adminHandler.SetFloristFeeRate)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)
		admin.GET("/commissions", adminHandler.ListCommissions)
		admin.GET("/payouts", payoutHandler.ListPending)
		admin.POST("/payouts/:id/resolve", middleware.UUIDValidator("id"), payoutHandler.Resolve)
	}

	return r
}
