package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/priyansh-garg1/Social-Media-Clone-Backend/config"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/handler"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/middleware"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/services"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/internal/websocket"
	"github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Chat *handler.ChatHandler
	WS   *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, verifier *services.TokenVerifier) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/ws", handlers.WS.Connect)

	messages := s.engine.Group("/api/messages", middleware.AuthMiddleware(verifier))
	{
		messages.GET("/conversations", handlers.Chat.GetConversations)
		messages.GET("/:otherUserId", handlers.Chat.GetMessages)
		messages.POST("", handlers.Chat.SendMessage)
		messages.DELETE("/:otherUserId", handlers.Chat.DeleteMessages)
	}
}

// Start runs the server until SIGINT/SIGTERM, then drains for 5 seconds.
func (s *Server) Start() error {
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	s.logger.Infof("Shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
