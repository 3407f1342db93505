package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/webpilot/backend/internal/api/http"
	"github.com/webpilot/backend/internal/api/middleware"
	"github.com/webpilot/backend/internal/domain/task"
	"github.com/webpilot/backend/internal/infrastructure/config"
	"github.com/webpilot/backend/internal/infrastructure/logging"
	"github.com/webpilot/backend/internal/infrastructure/monitoring"
	"github.com/webpilot/backend/internal/infrastructure/tracing"
	"github.com/webpilot/backend/internal/infrastructure/webclient"
	actionsProvider "github.com/webpilot/backend/internal/providers/actions"
	firewallProvider "github.com/webpilot/backend/internal/providers/firewall"
	"github.com/webpilot/backend/internal/service"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	tasks    *task.Manager
	client   *webclient.Client
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing WebPilot server",
		zap.String("port", cfg.Server.Port),
		zap.Int("firewall_max_actions", cfg.Firewall.MaxActions),
		zap.Int("firewall_max_duration_seconds", cfg.Firewall.MaxDurationSeconds),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("backend", logger.Logger)

	webClient := webclient.New(cfg.Web)
	tasks := task.NewManager(cfg.Firewall, logger).WithMetrics(metrics)

	serviceRegistry := service.NewRegistry()
	registerProviders(serviceRegistry, tasks, webClient, metrics, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(serviceRegistry, tasks, webClient, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		registry: serviceRegistry,
		tasks:    tasks,
		client:   webClient,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.logger.Sync()
	return nil
}

func registerProviders(
	registry *service.Registry,
	tasks *task.Manager,
	client *webclient.Client,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) {
	fwProvider := firewallProvider.NewProvider(tasks, logger).WithMetrics(metrics)
	if err := registry.Register(fwProvider); err != nil {
		logger.Warn("Failed to register firewall provider", zap.Error(err))
	}

	actProvider := actionsProvider.NewProvider(tasks, client, logger).WithMetrics(metrics)
	if err := registry.Register(actProvider); err != nil {
		logger.Warn("Failed to register actions provider", zap.Error(err))
	}

	stats := registry.Stats()
	logger.Info("Registered service providers",
		zap.Any("services", stats["total_services"]),
		zap.Any("tools", stats["total_tools"]),
	)
}
