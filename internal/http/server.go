package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/xfrtuc/internal/app"
	"github.com/ochronus/xfrtuc/internal/config"
	"github.com/sirupsen/logrus"
)

// Server represents the fake transferatu HTTP server
type Server struct {
	container *app.Container
	config    *config.Config
	handler   *Handler
	logger    *logrus.Logger
	router    *gin.Engine
	srv       *http.Server

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a new HTTP server
func NewServer(container *app.Container) *Server {
	cfg := container.Config

	// Set gin mode based on log level
	if cfg.Loglevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add logging middleware
	router.Use(requestLogger(container.Logger))

	// Credentials are checked before any path is classified
	router.Use(BasicAuth(cfg.Users, container.Logger))

	handler := NewHandler(container)

	// Register routes
	router.Any("/groups", handler.Dispatch)
	router.Any("/groups/*rest", handler.Dispatch)
	router.NoRoute(handler.NotFound)

	return &Server{
		container: container,
		config:    cfg,
		handler:   handler,
		logger:    container.Logger,
		router:    router,
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request handled")
	}
}

// Start starts the HTTP server with a background context.
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the HTTP server and shuts down gracefully when the context is canceled.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	s.logger.Infof("Starting fake transferatu at http://%s", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		s.logger.Info("Fake transferatu stopped")
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the address the server is listening on, or nil before it
// has started. Useful when the configured port is 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// GetRouter returns the underlying gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
