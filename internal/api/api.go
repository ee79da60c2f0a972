package api

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/api/controllers"
	"github.com/curaious/ticktrack/internal/api/ratelimit"
	"github.com/curaious/ticktrack/internal/config"
	"github.com/curaious/ticktrack/internal/services"
)

// Server is the fasthttp REST server exposing the time tracking resources
type Server struct {
	srv      *fasthttp.Server
	addr     string
	conf     *config.Config
	services *services.Services
	auth     controllers.SubjectResolver
	limiter  ratelimit.Limiter
}

// New creates a server over the given services. A nil limiter disables rate limiting.
func New(conf *config.Config, svc *services.Services, auth controllers.SubjectResolver, limiter ratelimit.Limiter) *Server {
	s := &Server{
		srv: &fasthttp.Server{
			Name:        "ticktrack",
			ReadTimeout: 30 * time.Second,
		},
		addr:     conf.HTTP_ADDR,
		conf:     conf,
		services: svc,
		auth:     auth,
		limiter:  limiter,
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// Handler exposes the fully wrapped request handler
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.srv.Handler
}

// Start the rest server and block until SIGINT or SIGTERM
func (s *Server) Start() {
	slog.Info("Starting REST server...", slog.String("addr", s.addr))
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

// Shutdown shuts down the rest server
func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	if err := s.srv.ShutdownWithContext(ctx); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
