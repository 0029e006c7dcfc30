package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lifekit/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	// Port 0 lets the kernel pick a free port.
	s := New(Config{Host: "127.0.0.1", Port: 0}, logger.Nop())
	s.GinEngine().GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return s
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.ReadTimeout != 15 || cfg.WriteTimeout != 15 || cfg.IdleTimeout != 60 {
		t.Errorf("unexpected timeouts: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	cfg = Config{Port: 8080, ReadTimeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestServerStartServeClose(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Serving() {
		t.Error("expected server serving after start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", s.Addr()))
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.Serving() {
		t.Error("expected server not serving after close")
	}
}

func TestComponentLifecycle(t *testing.T) {
	comp := NewComponent(newTestServer(t))
	ctx := context.Background()

	if comp.Name() != "http-server" {
		t.Errorf("unexpected name %q", comp.Name())
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	healthy, err := comp.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !healthy {
		t.Error("expected healthy after start")
	}

	if err := comp.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	healthy, _ = comp.CheckHealth(ctx)
	if healthy {
		t.Error("expected unhealthy after close")
	}
}

func TestStartBindFailure(t *testing.T) {
	first := newTestServer(t)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Close(context.Background())

	// Second server on the same (now concrete) port must fail to bind.
	second := New(Config{Host: "127.0.0.1"}, logger.Nop())
	second.httpServer.Addr = first.Addr()
	if err := second.Start(context.Background()); err == nil {
		second.Close(context.Background())
		t.Fatal("expected bind failure on occupied port")
	}
}
