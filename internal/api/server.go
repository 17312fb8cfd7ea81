package api

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventhub-api/docs"
	v1 "github.com/vietanh2810/eventhub-api/internal/api/handler/v1"
	"github.com/vietanh2810/eventhub-api/internal/api/middleware"
	"github.com/vietanh2810/eventhub-api/internal/config"
	"github.com/vietanh2810/eventhub-api/internal/domain"
	"github.com/vietanh2810/eventhub-api/internal/pkg/storage"
	"github.com/vietanh2810/eventhub-api/internal/repository"
	"github.com/vietanh2810/eventhub-api/internal/repository/dao"
	"github.com/vietanh2810/eventhub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	Hub    *v1.NotificationHub
}

type handlers struct {
	auth     *v1.AuthHandler
	event    *v1.EventHandler
	payment  *v1.PaymentHandler
	feedback *v1.FeedbackHandler
}

// NewServer wires every layer on top of db. The notification hub runs until ctx is
// done. rdb may be nil, which disables rate limiting.
func NewServer(ctx context.Context, conf *config.AppConfig, db *gorm.DB, rdb *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Hub:    v1.NewNotificationHub(conf.API.AllowedCORSDomains),
	}
	go s.Hub.Run(ctx)

	s.MountMiddlewares()

	userService := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	authenticator := middleware.NewAuthenticator(conf.API.JWTSigningKey, userService)
	h := s.initHandlers(db, userService)

	var limiter *middleware.RateLimiter
	if rdb != nil {
		limiter = middleware.NewRateLimiter(rdb, conf.Redis.LoginRateLimit, conf.Redis.RateWindow)
	}

	s.mountHandlers(h, authenticator, limiter)

	return s
}

func (s *Server) initHandlers(db *gorm.DB, userService *service.UserService) handlers {
	tx := dao.NewTxManager(db)
	users := repository.NewUserRepository(dao.NewUserDAO(db))
	events := repository.NewEventRepository(dao.NewEventDAO(db))
	payments := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	feedback := repository.NewFeedbackRepository(dao.NewFeedbackDAO(db))

	authService := service.NewAuthService(users)
	eventService := service.NewEventService(events, tx, s.Hub)
	paymentService := service.NewPaymentService(payments, events, tx, s.Hub)
	approvalService := service.NewApprovalService(payments, events, tx, s.Hub)
	feedbackService := service.NewFeedbackService(feedback)

	images := storage.NewImageStore(s.Config.Upload.Dir, s.Config.Upload.MaxSize)

	return handlers{
		auth:     v1.NewAuthHandler(s.Config.API, authService, userService),
		event:    v1.NewEventHandler(eventService, images),
		payment:  v1.NewPaymentHandler(paymentService, approvalService),
		feedback: v1.NewFeedbackHandler(feedbackService),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(middleware.Recovery())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Metrics())
}

func (s *Server) mountHandlers(h handlers, authn *middleware.Authenticator, limiter *middleware.RateLimiter) {
	const basePath = "/api"

	verify := authn.VerifyJWT()
	admin := middleware.RequireRole(domain.RoleAdmin)
	var limit gin.HandlerFunc = func(ctx *gin.Context) { ctx.Next() }
	if limiter != nil {
		limit = limiter.Limit()
	}

	api := s.Router.Group(basePath)

	auth := api.Group("/auth")
	{
		auth.POST("/register", limit, h.auth.HandleRegister)
		auth.POST("/login", limit, h.auth.HandleLogin)
		auth.GET("/me", verify, h.auth.HandleMe)
		auth.PUT("/update-profile", verify, h.auth.HandleUpdateProfile)
		auth.GET("/users", verify, admin, h.auth.HandleListUsers)
	}

	events := api.Group("/events")
	{
		events.GET("/public", h.event.HandleListPublicEvents)
		events.GET("/public/:id", h.event.HandleGetPublicEvent)

		events.POST("", verify, h.event.HandleCreateEvent)
		events.GET("", verify, h.event.HandleListEvents)
		events.GET("/myevents", verify, h.event.HandleListMyEvents)
		events.GET("/pending", verify, admin, h.event.HandleListPendingEvents)
		events.PUT("/:id/approve", verify, admin, h.event.HandleApproveEvent)
		events.POST("/:id/register", verify, h.event.HandleRegisterAttendee)
		events.GET("/:id", verify, h.event.HandleGetEvent)
		events.PUT("/:id", verify, h.event.HandleUpdateEvent)
		events.DELETE("/:id", verify, h.event.HandleDeleteEvent)
	}

	payments := api.Group("/payments", verify)
	{
		payments.POST("/submit", h.payment.HandleSubmitPayment)
		payments.GET("/user-history", h.payment.HandleListMyPayments)
		payments.GET("", admin, h.payment.HandleListPayments)
		payments.GET("/pending", admin, h.payment.HandleListPendingPayments)
		payments.PUT("/approve/:id", admin, h.payment.HandleApprovePayment)
		payments.PUT("/reject/:id", admin, h.payment.HandleRejectPayment)
		payments.GET("/:id", admin, h.payment.HandleGetPayment)
		payments.PUT("/:id", h.payment.HandleUpdatePayment)
		payments.DELETE("/:id", h.payment.HandleDeletePayment)
	}

	feedback := api.Group("/feedback")
	{
		feedback.POST("", h.feedback.HandleCreateFeedback)
		feedback.GET("", h.feedback.HandleListFeedback)
		feedback.GET("/:id", h.feedback.HandleGetFeedback)
		feedback.PUT("/:id", h.feedback.HandleUpdateFeedback)
		feedback.DELETE("/:id", h.feedback.HandleDeleteFeedback)
	}

	api.GET("/notifications/ws", verify, s.Hub.HandleWebSocket)

	s.Router.GET("/", v1.HandleWelcome)
	s.Router.GET("/healthz", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.Router.Static("/uploads", s.Config.Upload.Dir)
	s.Router.NoRoute(v1.HandleNoRoute)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Event management API"
	docs.SwaggerInfo.Description = "Events, ticket payments and approvals."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
