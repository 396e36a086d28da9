package router

import (
	"time"

	"freightdesk/config"
	"freightdesk/internal/domain"
	"freightdesk/internal/handler"
	"freightdesk/internal/mailer"
	"freightdesk/internal/middleware"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"
	"freightdesk/internal/ws"
	"freightdesk/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	Cloud cloudinary.Client
	Mail  mailer.Mailer
	FCM   *service.FCMService
	Hub   *ws.TrackingHub
	Scan  *service.DelayScanService
}

// Build constructs the delay-scan service separately so main can hand it to
// the cron scheduler as well as the router.
func BuildDelayScan(db *gorm.DB, mail mailer.Mailer, log *zap.Logger) *service.DelayScanService {
	return service.NewDelayScanService(
		repository.NewShipmentRepository(db),
		repository.NewNotificationRepository(db),
		mail,
		log,
	)
}

func Setup(d Deps) *gin.Engine {
	if d.Cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	customerRepo := repository.NewCustomerRepository(d.DB)
	shipmentRepo := repository.NewShipmentRepository(d.DB)
	timelineRepo := repository.NewTimelineRepository(d.DB)
	notificationRepo := repository.NewNotificationRepository(d.DB)
	documentRepo := repository.NewDocumentRepository(d.DB)

	// Services
	authSvc := service.NewAuthService(d.Cfg, userRepo)
	notifySvc := service.NewNotifyService(shipmentRepo, userRepo, notificationRepo, d.Mail, d.FCM, d.Log)
	shipmentSvc := service.NewShipmentService(shipmentRepo, timelineRepo, notifySvc, d.Log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(d.Cfg, authSvc)
	shipmentHandler := handler.NewShipmentHandler(shipmentSvc, shipmentRepo, d.Hub)
	customerHandler := handler.NewCustomerHandler(customerRepo)
	documentHandler := handler.NewDocumentHandler(documentRepo, shipmentRepo, notifySvc, shipmentSvc, d.Cloud)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	dashboardHandler := handler.NewDashboardHandler(shipmentRepo, customerRepo, notificationRepo, d.Hub)
	adminHandler := handler.NewAdminHandler(userRepo, authSvc, d.Scan)

	authMw := middleware.AuthRequired(&d.Cfg.JWT)
	staffMw := middleware.RequireRole(domain.StaffRoles...)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/me", authMw, authHandler.Me)
			authGroup.PUT("/fcm-token", authMw, authHandler.UpdateFCMToken)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Public tracking lookup for customers.
		api.GET("/track/:reference", shipmentHandler.Track)

		shipments := api.Group("/shipments")
		shipments.Use(authMw, staffMw)
		{
			shipments.POST("", shipmentHandler.Create)
			shipments.GET("", shipmentHandler.List)
			shipments.GET("/:id", shipmentHandler.Get)
			shipments.PATCH("/:id", shipmentHandler.Update)
			shipments.PATCH("/:id/status", shipmentHandler.UpdateStatus)
			shipments.POST("/:id/documents", documentHandler.Upload)
			shipments.GET("/:id/documents", documentHandler.ListByShipment)
		}
		api.PATCH("/documents/:docId/review", authMw, staffMw, documentHandler.Review)

		customers := api.Group("/customers")
		customers.Use(authMw, staffMw)
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
			customers.PATCH("/:id", customerHandler.Update)
			customers.DELETE("/:id", customerHandler.Delete)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		}

		api.GET("/dashboard", authMw, staffMw, dashboardHandler.Stats)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.PATCH("/users/:id/active", adminHandler.SetUserActive)
			admin.GET("/roles", adminHandler.RoleOptions)
			admin.POST("/delay-scan", adminHandler.TriggerDelayScan)
		}
	}

	r.GET("/ws/tracking", ws.UpgradeTrackingWS(&d.Cfg.JWT, d.Hub))

	return r
}
