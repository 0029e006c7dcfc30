// Package server provides a Gin-backed HTTP server packaged as a
// lifekit component: it binds on Start, shuts down gracefully on Close,
// and reports liveness through the health-check capability.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/lifekit/logger"
)

// Server is an HTTP server backed by Gin.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger
	serving    atomic.Bool
}

// New creates a new Server. Routes are registered on the Gin engine
// before Start.
func New(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()

	// Gin mode follows the global zerolog level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Addr returns the actual listen address. Useful when the configured
// port is 0 and the kernel picked one.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start binds the port and begins serving. It returns once the listener
// is bound so the caller knows the port is ready; serving continues in
// a goroutine.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.httpServer.Addr = listener.Addr().String()
	s.serving.Store(true)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.serving.Store(false)
			s.log.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return nil
}

// Close gracefully shuts down the server with a 5-second deadline.
func (s *Server) Close(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	s.serving.Store(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Serving reports whether the server currently holds a bound listener.
func (s *Server) Serving() bool {
	return s.serving.Load()
}
