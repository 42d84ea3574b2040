package handlers

import (
	"time"

	"holdings-api/internal/config"
	"holdings-api/internal/middleware"
	"holdings-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// maxRequestBody bounds POST bodies; a holding is a handful of fields
const maxRequestBody = 1 << 20

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	HoldingService  services.HoldingService
	EmployeeService services.EmployeeService
	HealthService   services.HealthService
	GreetingService services.GreetingService

	// CORS is applied by the Lambda router; server mode uses the middleware
	CORS    *middleware.CORSPolicy
	Metrics *middleware.Metrics
	Logger  *logrus.Logger
}

// NewRouterConfig takes the services out of a service container
func NewRouterConfig(svc *services.ServiceContainer, cors *middleware.CORSPolicy, logger *logrus.Logger) *RouterConfig {
	return &RouterConfig{
		HoldingService:  svc.HoldingService,
		EmployeeService: svc.EmployeeService,
		HealthService:   svc.HealthService,
		GreetingService: svc.GreetingService,
		CORS:            cors,
		Logger:          logger,
	}
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) *Handlers {
	h := NewHandlers(config)

	router.GET("/hello", h.Hello.Hello)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Health)
		api.GET("/employees", h.Employee.ListEmployees)
	}

	holdings := router.Group("/holdings")
	{
		holdings.GET("", h.Holding.ListHoldings)
		holdings.POST("", h.Holding.CreateHolding)
		holdings.GET("/:id", h.Holding.GetHolding)
		holdings.DELETE("/:id", h.Holding.DeleteHolding)
	}

	if config.Metrics != nil {
		router.GET("/metrics", gin.WrapH(config.Metrics.Handler()))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return h
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config, logger *logrus.Logger, metrics *middleware.Metrics) {
	router.Use(gin.Recovery())

	// Request ID and correlation ID
	router.Use(middleware.RequestID())
	router.Use(middleware.CorrelationID())

	router.Use(middleware.CORS(middleware.NewCORSPolicy(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials)))
	router.Use(middleware.SecurityHeaders())

	if metrics != nil {
		router.Use(metrics.Middleware())
	}

	router.Use(middleware.RequestSizeLimit(maxRequestBody))
	router.Use(middleware.ContentTypeValidation("application/json"))
	router.Use(middleware.RequestValidation())
	router.Use(middleware.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.PerformanceMonitor(logger, time.Second))
	router.Use(middleware.AuditLogger(logger))

	router.Use(middleware.ErrorHandler(logger))
}
