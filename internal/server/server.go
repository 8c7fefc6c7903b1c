package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gomithril/embedserver"
	"github.com/gomithril/embedserver/embedding"
	"github.com/gomithril/embedserver/internal/api"
	"github.com/gomithril/embedserver/internal/config"
)

type Server struct {
	HTTPServer *http.Server
	Embedder   embedserver.Embedder
}

// New wires the embedding service into an HTTP server configured by cfg.
func New(cfg config.Config) (*Server, error) {
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		return nil, fmt.Errorf("unknown gin mode %q", cfg.GinMode)
	}

	svc, err := embedding.NewService(&embedding.Config{EmbedDim: embedserver.Dimension})
	if err != nil {
		return nil, fmt.Errorf("create embedding service: %w", err)
	}

	h := api.NewHandler(svc, api.FormLimits{
		MaxMemory: cfg.MaxFormMemory,
		MaxBody:   cfg.MaxBodyBytes,
	})
	r := api.NewRouter(h, cfg.AccessLog)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return &Server{HTTPServer: httpServer, Embedder: svc}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.Embedder.Close()
	return s.HTTPServer.Shutdown(ctx)
}
