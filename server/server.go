package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/server/endpoint"
	"github.com/kbukum/rxkit/server/middleware"
)

// Server is an HTTP server with a gin engine mounted at the root of a
// ServeMux, served as HTTP/1.1 and cleartext HTTP/2 on one port. The
// middleware stack wraps the whole mux.
type Server struct {
	cfg     Config
	engine  *gin.Engine
	mux     *http.ServeMux
	handler http.Handler
	log     *logger.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New creates a server. cfg should already have defaults applied.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	log = log.WithComponent("server")
	stack := middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORS),
		middleware.BodySizeLimit(cfg.MaxBodySize),
	)

	return &Server{
		cfg:     cfg,
		engine:  engine,
		mux:     mux,
		handler: stack(mux),
		log:     log,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handle mounts a plain http.Handler next to gin.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
	s.log.Debug("handler mounted", logger.Fields("pattern", pattern))
}

// Handler returns the full middleware-wrapped handler, as served.
func (s *Server) Handler() http.Handler { return s.handler }

// RegisterHealth serves GET /health from checker and GET /version.
func (s *Server) RegisterHealth(service string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(service, checker))
	s.engine.GET("/version", endpoint.Version())
}

// Start binds the port and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.ProtocolViolation("server.Start", "server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Unavailable("http listener " + addr).WithCause(err)
	}

	h2s := &http2.Server{MaxConcurrentStreams: 250, IdleTimeout: s.cfg.IdleTimeout}
	srv := &http.Server{
		Handler:           h2c.NewHandler(s.handler, h2s),
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}
	s.srv, s.listener = srv, ln

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("http server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully within ShutdownTimeout. Open event
// streams end when their request contexts are canceled.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("graceful shutdown incomplete, closing", logger.ErrorFields("shutdown", err))
		_ = srv.Close()
		return errors.FromContext("server.stop", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}
