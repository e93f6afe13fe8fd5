package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	statushttp "github.com/GriffinCanCode/tami/internal/api/http"
	"github.com/GriffinCanCode/tami/internal/api/middleware"
	"github.com/GriffinCanCode/tami/internal/domain/favorites"
	"github.com/GriffinCanCode/tami/internal/domain/tree"
	"github.com/GriffinCanCode/tami/internal/infrastructure/config"
	"github.com/GriffinCanCode/tami/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/tami/internal/logging"
	"github.com/GriffinCanCode/tami/internal/providers/terminal"
	"github.com/GriffinCanCode/tami/internal/providers/viewer"
	"github.com/GriffinCanCode/tami/internal/workspace"
)

const readHeaderTimeout = 5 * time.Second

// Server owns the workspace and the optional status listener.
type Server struct {
	config    *config.Config
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	workspace *workspace.Workspace

	router   *gin.Engine
	http     *http.Server
	listener net.Listener
	serveErr chan error
}

// New builds every component from cfg. File previews are written to out.
func New(cfg *config.Config, out io.Writer) (*Server, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("Initializing tami",
		zap.String("root", cfg.RootPath()),
		zap.String("data_dir", cfg.Workspace.DataDir),
		zap.String("status_addr", cfg.Status.Addr),
	)

	metrics := monitoring.NewMetrics()

	var router *gin.Engine
	if cfg.Status.Addr != "" {
		cors := middleware.CORSConfigFor(cfg.Status.AllowOrigins)
		if err := cors.Validate(); err != nil {
			return nil, fmt.Errorf("invalid status origins: %w", err)
		}
		router = newRouter(cfg, cors, logger, metrics)
	}

	t := tree.New(cfg.RootPath(),
		tree.WithLogger(logger.Component("tree")),
		tree.WithMetrics(metrics),
	)

	favs := favorites.New(favorites.NewFileBackend(cfg.FavoritesPath()),
		favorites.WithLogger(logger.Component("favorites")),
		favorites.WithMetrics(metrics),
	)

	sessions := terminal.NewRegistry(terminal.PTYSpawner{},
		terminal.WithLogger(logger.Component("terminal")),
		terminal.WithMetrics(metrics),
		terminal.WithShellResolver(terminal.LoginShell(cfg.Terminal.DefaultShell)),
		terminal.WithWindowSize(cfg.Terminal.Cols, cfg.Terminal.Rows),
		terminal.WithTerm(cfg.Terminal.Term),
		terminal.WithEnv(cfg.Terminal.Env),
		terminal.WithOutputBuffer(cfg.Terminal.OutputBuffer),
		terminal.WithEventQueue(cfg.Terminal.EventQueue),
	)

	view := viewer.New(out,
		viewer.WithPreviewLimit(cfg.Workspace.PreviewLimit),
		viewer.WithLogger(logger.Component("viewer")),
	)

	ws := workspace.New(t, favs, sessions, view,
		workspace.WithLogger(logger.Component("workspace")),
	)

	if router != nil {
		statushttp.NewHandlers(favs, metrics).Register(router)
	}

	logger.Info("Initialized",
		zap.Int("favorites", favs.Len()),
		zap.Bool("status", router != nil),
	)

	return &Server{
		config:    cfg,
		logger:    logger,
		metrics:   metrics,
		workspace: ws,
		router:    router,
	}, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Logging.Development {
		lc = logging.DevelopmentConfig()
	}
	if path := cfg.LogPath(); path != "" {
		fc, err := logging.FileConfig(cfg.Logging.Level, path)
		if err != nil {
			return nil, err
		}
		lc = fc
	}
	lc.Level = cfg.Logging.Level
	return logging.New(lc)
}

func newRouter(cfg *config.Config, cors middleware.CORSConfig, logger *logging.Logger, metrics *monitoring.Metrics) *gin.Engine {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger.Component("status")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(cors))
	router.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.Status.RequestsPerSecond,
		Burst:             cfg.Status.Burst,
	}))
	return router
}

// Workspace returns the workspace.
func (s *Server) Workspace() *workspace.Workspace { return s.workspace }

// Logger returns the root logger.
func (s *Server) Logger() *logging.Logger { return s.logger }

// Metrics returns the metrics registry.
func (s *Server) Metrics() *monitoring.Metrics { return s.metrics }

// Router returns the status router, or nil when the listener is disabled.
func (s *Server) Router() *gin.Engine { return s.router }

// Start binds the status listener and serves it in the background. It is
// a no-op when no address is configured.
func (s *Server) Start() error {
	if s.router == nil || s.http != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Status.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Status.Addr, err)
	}

	s.listener = ln
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.serveErr = make(chan error, 1)

	s.logger.Info("Starting status listener", zap.String("addr", ln.Addr().String()))
	go func() {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.logger.Error("Status listener stopped", zap.Error(err))
		}
		s.serveErr <- err
	}()
	return nil
}

// Addr returns the bound status address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close stops the status listener, then saves favorites and terminates
// every session.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop status listener: %w", err))
		}
		if err := <-s.serveErr; err != nil {
			errs = append(errs, err)
		}
		s.http = nil
	}

	if err := s.workspace.Close(); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("Shut down")
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
