package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server defines fields used in HTTP processing
type Server struct {
	logger *zap.SugaredLogger
	config config
}

// NewServer returns new Server struct serving the page and JSON API routes backed by the provided services
func NewServer(logger *zap.SugaredLogger, users userService, messages messageService, opts ...Option) (*Server, error) {
	if users == nil || messages == nil {
		return nil, fmt.Errorf("server: user and message services are required")
	}

	h := &handler{
		logger:   logger,
		users:    users,
		messages: messages,
	}

	cfg := config{
		httpServer: &http.Server{
			Addr:    ":9000",
			Handler: routes(logger.Desugar(), h),
		},
		shutdownTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	return &Server{
		logger: logger,
		config: cfg,
	}, nil
}

func routes(logger *zap.Logger, h *handler) http.Handler {
	api := &apiHandler{handler: h}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logRequests(logger))
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(limitBody)

		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)
		r.Get("/register", h.registerForm)
		r.Post("/register", h.register)
		r.Post("/send_message", h.sendMessage)
		r.Get("/inbox/{user_id}", h.inbox)
	})

	r.Route("/api", func(r chi.Router) {
		r.With(enforcePOSTJSON).Post("/users", api.createUser)
		r.With(enforcePOSTJSON).Post("/login", api.login)
		r.With(enforcePOSTJSON).Post("/messages", api.createMessage)
		r.Get("/inbox/{user_id}", api.inbox)
	})

	return r
}

// Handler exposes the fully wrapped handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.config.httpServer.Handler
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.config.httpServer.Addr
}

// Start calls ListenAndServe on http.Server instance inside Server struct
// and implements graceful shutdown via goroutine waiting for signals
func (s *Server) Start() error {
	idleConnsClosed := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		s.logger.Info("Shutting down HTTP server")

		ctx, cancel := context.WithTimeout(context.Background(), s.config.shutdownTimeout)
		defer cancel()
		if err := s.config.httpServer.Shutdown(ctx); err != nil {
			s.logger.Errorf("srv.Shutdown: %v", err)
		}
		s.logger.Info("HTTP server is stopped")

		close(idleConnsClosed)
	}()

	s.logger.Infof("Starting HTTP server on %s", s.config.httpServer.Addr)
	if err := s.config.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("s.httpServer.ListenAndServe: %v", err)
	}

	<-idleConnsClosed

	for _, f := range s.config.afterShutdown {
		f()
	}

	return nil
}
