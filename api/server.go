package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eventlens-io/eventlens/config"
)

// Server is an HTTP Server
type Server struct {
	cfg *config.AdminConfig
	s   *http.Server
}

func NewServer(cfg config.AdminConfig, handler http.Handler) *Server {
	s := &http.Server{
		Handler: handler,
		Addr:    cfg.Listen,

		// POST /events holds the response open for the whole crawl
		WriteTimeout: 10 * time.Minute,
		ReadTimeout:  60 * time.Second,
	}

	return &Server{
		cfg: &cfg,
		s:   s,
	}
}

// Start starts the HTTP server
func (srv *Server) Start() {
	go func() {
		if err := srv.s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Errorf("Failed to start API server: %v", err)
			os.Exit(1)
		}
	}()
}

// Stop stops the HTTP server
func (srv *Server) Stop() error {
	return srv.s.Shutdown(context.TODO())
}
