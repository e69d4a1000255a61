package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/cardio-risk/api/handlers"
	"github.com/OldStager01/cardio-risk/api/middleware"
	"github.com/OldStager01/cardio-risk/api/websocket"
	_ "github.com/OldStager01/cardio-risk/docs"
	"github.com/OldStager01/cardio-risk/internal/analyzer"
	"github.com/OldStager01/cardio-risk/internal/metrics"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/internal/report"
	"github.com/OldStager01/cardio-risk/pkg/config"
	"github.com/OldStager01/cardio-risk/pkg/database"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies are the collaborators the server routes to. DB, Metrics and
// Events are optional.
type Dependencies struct {
	Inferer  pipeline.Inferer
	Analyzer *analyzer.Analyzer
	Reports  *report.Builder
	DB       *database.DB
	Metrics  *metrics.Metrics
	Events   <-chan *models.Event
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(handlers.Templates())

	s := &Server{
		router: router,
		config: cfg,
		deps:   deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	if s.wsHub != nil {
		go s.wsHub.Run()

		if deps.Events != nil {
			s.wsBridge = websocket.NewEventBridge(s.wsHub, deps.Events)
			s.wsBridge.Start()
		}
	}

	return s
}

func (s *Server) setupMiddleware() {
	maxBody := s.config.API.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS(middleware.CORSFromConfig(s.config.API.CORS)))
	s.router.Use(middleware.RequestSizeLimit(maxBody))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())

	rateLimiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
	s.router.Use(middleware.RateLimit(rateLimiter))

	// Reports run the analyzer as well; allow half the general budget.
	if s.config.API.RateLimit > 0 {
		endpoints := middleware.NewEndpointRateLimiter()
		endpoints.AddEndpoint("/api/v1/report", max(1, s.config.API.RateLimit/2), time.Minute)
		s.router.Use(endpoints.Middleware())
	}
}

func (s *Server) setupRoutes() {
	var db handlers.Pinger
	if s.deps.DB != nil {
		db = s.deps.DB
	}

	healthHandler := handlers.NewHealthHandler(db, s.deps.Inferer)
	predictHandler := handlers.NewPredictHandler(s.deps.Inferer, s.deps.Analyzer, s.deps.Reports, s.config.Inference.EnforceBounds)
	formHandler := handlers.NewFormHandler(predictHandler)

	s.router.GET("/", formHandler.Show)
	s.router.POST("/", formHandler.Submit)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/options", predictHandler.Options)
		v1.GET("/model", predictHandler.Model)
		v1.POST("/predict", predictHandler.Predict)
		v1.POST("/report", predictHandler.Report)
	}

	if s.config.Metrics.Enabled && s.config.Metrics.Port == 0 && s.deps.Metrics != nil {
		s.router.GET("/metrics", handlers.NewMetricsHandler(s.deps.Metrics).Serve)
	}

	if s.config.WebSocket.Enabled {
		s.wsHub = websocket.NewHub(&s.config.WebSocket)
		s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))
	}

	if s.config.API.SwaggerEnabled {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.API.Port)

	idle := s.config.API.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       s.config.API.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.API.WriteTimeout,
		IdleTimeout:       idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	if s.wsHub != nil {
		s.wsHub.Stop()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
