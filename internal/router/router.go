package router

import (
	"log"
	"time"

	"havn/config"
	"havn/internal/handler"
	"havn/internal/middleware"
	"havn/internal/repository"
	"havn/internal/service"
	"havn/internal/ws"
	"havn/pkg/cloudinary"
	"havn/pkg/expopush"
	"havn/pkg/mailer"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	donationRepo := repository.NewDonationRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	savedRepo := repository.NewSavedRepository(db)

	hub := ws.NewHub()

	// Push channels are optional; the in-app record always lands.
	expoClient := expopush.NewClient(cfg.Push.ExpoBaseURL)
	fcmSvc := service.NewFCMService(cfg.Push.FirebaseServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[fcm] push notifications enabled")
	} else if cfg.Push.FirebaseServiceAccountPath != "" {
		log.Printf("[fcm] push disabled: failed to init (check service account file)")
	}

	var otpMailer service.Mailer
	if cfg.SendGrid.APIKey != "" {
		otpMailer = mailer.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromName, cfg.SendGrid.FromEmail)
	} else {
		log.Printf("[mailer] SENDGRID_API_KEY not set, logging otp codes instead")
		otpMailer = mailer.LogMailer{}
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub, expoClient, fcmSvc)
	donateSvc := service.NewDonationService(donationRepo, userRepo, notifSvc)
	matchSvc := service.NewMatchService(matchRepo, donationRepo, requestRepo, notifSvc)
	otpSvc := service.NewOTPService(userRepo, otpMailer, cfg.OTP.Cooldown, cfg.OTP.Expiry)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, otpSvc)
	donationHandler := handler.NewDonationHandler(donationRepo, savedRepo, donateSvc, matchSvc)
	requestHandler := handler.NewRequestHandler(requestRepo, matchSvc)
	matchHandler := handler.NewMatchHandler(matchRepo, matchSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	meHandler := handler.NewMeHandler(userRepo, donationRepo, requestRepo, savedRepo, donateSvc)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	fullMw := middleware.FullAccountRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/anonymous", authHandler.Anonymous)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, fullMw, authHandler.ChangePassword)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		api.GET("/catalog", handler.Catalog)

		donations := api.Group("/donations")
		donations.Use(authMw)
		{
			donations.GET("", donationHandler.List)
			donations.GET("/:id", donationHandler.Get)
			donations.POST("", fullMw, donationHandler.Create)
			donations.POST("/:id/request", fullMw, donationHandler.ToggleRequest)
			donations.GET("/:id/requesters", donationHandler.Requesters)
			donations.POST("/:id/accept", fullMw, donationHandler.Accept)
			donations.POST("/:id/remove", fullMw, donationHandler.RemoveRequester)
			donations.POST("/:id/receive", fullMw, donationHandler.Receive)
			donations.POST("/:id/save", donationHandler.Save)
			donations.DELETE("/:id/save", donationHandler.Unsave)
		}

		requests := api.Group("/requests")
		requests.Use(authMw)
		{
			requests.GET("", requestHandler.List)
			requests.GET("/:id", requestHandler.Get)
			requests.POST("", fullMw, requestHandler.Create)
			requests.POST("/:id/donate", fullMw, requestHandler.Donate)
		}

		matches := api.Group("/matches")
		matches.Use(authMw)
		{
			matches.GET("", matchHandler.List)
			matches.GET("/:id", matchHandler.Get)
			matches.POST("/:id/advance", matchHandler.Advance)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.Profile)
			me.PATCH("/profile", fullMw, meHandler.UpdateProfile)
			me.GET("/donations", meHandler.Donations)
			me.GET("/requests", meHandler.Requests)
			me.GET("/requested", meHandler.Requested)
			me.GET("/accepted", meHandler.Accepted)
			me.GET("/saved", meHandler.Saved)
			me.POST("/push-token", meHandler.PushToken)
		}

		api.POST("/upload/image", authMw, fullMw, uploadHandler.UploadImage)
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationsWS(&cfg.JWT, hub))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
