package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"courier/config"
	"courier/internal/domain"
	"courier/internal/handler"
	"courier/internal/middleware"
	"courier/internal/repository"
	"courier/internal/service"
	"courier/internal/ws"
	"courier/pkg/cloudinary"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	parcelRepo := repository.NewParcelRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, hub, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo, log)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, log)
	notificationHandler := handler.NewNotificationHandler(notifSvc, log)
	parcelHandler := handler.NewParcelHandler(parcelRepo, userRepo, notifSvc, log)
	agentHandler := handler.NewAgentHandler(agentRepo, parcelRepo, userRepo, notifSvc, cloud, log)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/user/me", authMw, authHandler.Me)

		notification := api.Group("/notification")
		notification.Use(authMw)
		{
			notification.GET("", notificationHandler.List)
			notification.PUT("/mark-all-read", notificationHandler.MarkAllRead)
			notification.PUT("/:id/read", notificationHandler.MarkRead)
			notification.DELETE("/:id", notificationHandler.Delete)
			notification.POST("", middleware.RequireRole(domain.RoleAdmin), notificationHandler.Create)
		}

		parcel := api.Group("/parcel")
		parcel.Use(authMw)
		{
			parcel.POST("/book-parcel", parcelHandler.Book)
			parcel.GET("/my-parcels", parcelHandler.MyParcels)
			parcel.GET("/track/:trackingNumber", parcelHandler.Track)
			parcel.PUT("/:id/assign", middleware.RequireRole(domain.RoleAdmin), parcelHandler.Assign)
		}

		agent := api.Group("/agent")
		agent.Use(authMw)
		{
			agent.POST("/apply", agentHandler.Apply)
			agent.GET("/assigned-parcels", middleware.RequireRole(domain.RoleAgent), agentHandler.AssignedParcels)
			agent.PUT("/assigned-update", middleware.RequireRole(domain.RoleAgent), agentHandler.UpdateParcelStatus)
			agent.PUT("/assigned-location", middleware.RequireRole(domain.RoleAgent), agentHandler.UpdateLocation)
			agent.PUT("/availability", middleware.RequireRole(domain.RoleAgent), agentHandler.SetAvailability)
			agent.GET("/pending", middleware.RequireRole(domain.RoleAdmin), agentHandler.PendingApplications)
			agent.POST("/approve/:userId", middleware.RequireRole(domain.RoleAdmin), agentHandler.Approve)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub, log))

	return r
}
