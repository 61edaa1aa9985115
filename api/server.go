package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uptc-energy/energy-assistant/api/handlers"
	"github.com/uptc-energy/energy-assistant/api/middleware"
	"github.com/uptc-energy/energy-assistant/api/websocket"
	"github.com/uptc-energy/energy-assistant/internal/chat"
	"github.com/uptc-energy/energy-assistant/internal/events"
	"github.com/uptc-energy/energy-assistant/internal/reports"
	"github.com/uptc-energy/energy-assistant/internal/timeseries"
	"github.com/uptc-energy/energy-assistant/pkg/config"
)

// predictRateLimit caps per-IP requests per minute on the forecasting proxy.
const predictRateLimit = 10

// Deps collects everything the HTTP surface needs; all of it is constructed
// in main and shared read-only here.
type Deps struct {
	Config       *config.Config
	Orchestrator *chat.Orchestrator
	Router       handlers.IntentRouter
	Forwarder    handlers.Forwarder
	Dataset      *timeseries.Store
	Reports      *reports.Store
	Bus          *events.EventBus
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	deps       Deps
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
}

func NewServer(deps Deps) *Server {
	if deps.Config.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	wsHub := websocket.NewHub(&deps.Config.WebSocket)

	s := &Server{
		router: router,
		deps:   deps,
		wsHub:  wsHub,
	}

	s.setupMiddleware()
	s.setupRoutes()

	go wsHub.Run()

	if deps.Bus != nil {
		s.wsBridge = websocket.NewEventBridge(wsHub, deps.Bus.SubscribeAll())
		s.wsBridge.Start()
	}

	return s
}

func (s *Server) setupMiddleware() {
	cfg := s.deps.Config.API

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CORS(corsConfig(cfg.CORS)))
	s.router.Use(middleware.RequestLogger())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.SecurityHeaders())

	if cfg.MaxBodyBytes > 0 {
		s.router.Use(middleware.RequestSizeLimit(cfg.MaxBodyBytes))
	}
	if cfg.RateLimit > 0 {
		s.router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// The forecasting upstream cold-starts and can hold a connection for up
	// to three minutes, so the proxy endpoint gets a much tighter limit than
	// the global one.
	endpointLimits := middleware.NewEndpointRateLimiter()
	endpointLimits.AddEndpoint("/api/predict", predictRateLimit, time.Minute)
	s.router.Use(endpointLimits.Middleware())
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		out.AllowOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		out.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		out.AllowHeaders = cfg.AllowedHeaders
	}
	if len(cfg.ExposedHeaders) > 0 {
		out.ExposeHeaders = cfg.ExposedHeaders
	}
	out.AllowCredentials = cfg.AllowCredentials
	return out
}

func (s *Server) setupRoutes() {
	// Non-POST on the chat and predict endpoints must answer 405, the
	// browser demo relies on it.
	s.router.HandleMethodNotAllowed = true

	healthHandler := handlers.NewHealthHandler(s.deps.Dataset, s.deps.Reports)
	chatHandler := handlers.NewChatHandler(s.deps.Router)
	predictHandler := handlers.NewPredictHandler(s.deps.Forwarder)
	assistantHandler := handlers.NewAssistantHandler(s.deps.Orchestrator)
	reportsHandler := handlers.NewReportsHandler(s.deps.Reports, s.deps.Orchestrator)
	sessionHandler := handlers.NewSessionHandler(s.deps.Orchestrator)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))

	api := s.router.Group("/api")
	{
		api.POST("/chat", chatHandler.Chat)
		api.POST("/predict", predictHandler.Predict)
		api.POST("/assistant", assistantHandler.Message)

		api.GET("/reports/predictions", reportsHandler.Predictions)
		api.GET("/reports/inefficiencies", reportsHandler.Inefficiencies)
		api.POST("/reports/inefficiencies/:rank/select", reportsHandler.SelectEvent)

		api.GET("/session/:id/history", sessionHandler.History)
		api.POST("/session/:id/reset", sessionHandler.Reset)
	}

	if dir := s.deps.Config.API.StaticDir; dir != "" {
		s.router.Static("/app", dir)
		s.router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/app/")
		})
	}
}

func (s *Server) Start() error {
	cfg := s.deps.Config.API
	addr := fmt.Sprintf(":%d", cfg.Port)

	idleTimeout := cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.wsBridge != nil {
		s.wsBridge.Stop()
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
