// Package server exposes the chat agent over HTTP: a JSON auth endpoint,
// an SSE chat stream, and the embedded browser widget.
package server

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
	customersx "github.com/techmart/support-chat/agent/customers"
	turnnode "github.com/techmart/support-chat/agent/nodes"
)

const shutdownTimeout = 10 * time.Second

type Config struct {
	Host  string `default:"0.0.0.0"`
	Port  int    `default:"8000"`
	Debug bool   `default:"false"`
}

// TurnHandler runs one full conversation turn and always produces a
// renderable response.
type TurnHandler interface {
	HandleTurn(ctx context.Context, customerID, message string) turnnode.GraphOutput
}

// Streamer paces a response out as a chunk sequence.
type Streamer interface {
	Stream(ctx context.Context, text string, intent contractx.Intent) iter.Seq[string]
}

type Server struct {
	engine    *gin.Engine
	addr      string
	agent     TurnHandler
	presenter Streamer
	customers *customersx.Store
}

func New(cfg Config, agent TurnHandler, presenter Streamer, customers *customersx.Store) (*Server, error) {
	if agent == nil {
		return nil, errors.New("server: agent is required")
	}
	if presenter == nil {
		return nil, errors.New("server: presenter is required")
	}
	if customers == nil {
		return nil, errors.New("server: customer store is required")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	s := &Server{
		addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		agent:     agent,
		presenter: presenter,
		customers: customers,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(), allowAllCORS())
	s.registerRoutes(engine)
	s.engine = engine

	return s, nil
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/", s.handleIndex)
	engine.GET("/healthz", s.handleHealth)
	engine.POST("/auth", s.handleAuth)
	engine.GET("/chat/:customer", s.handleChat)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", s.addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
