package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-be/internal/catalog"
	"gallery-be/internal/config"
	"gallery-be/internal/db"
	"gallery-be/internal/handler"
	"gallery-be/internal/logger"
	"gallery-be/internal/middleware"
	"gallery-be/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const shutdownTimeout = 10 * time.Second

// Swappable for tests.
var (
	initDBFunc      = db.NewDatabase
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var database *sql.DB
	if cfg.UsesDatabase() {
		var err error
		database, err = initDBFunc(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		logger.L().Info("database connection established")
	}

	app, err := newServer(cfg, database)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.serve(ctx)
}

type server struct {
	cfg      *config.Config
	handler  http.Handler
	sessions *session.Manager
	limiter  *middleware.RateLimiter
}

func newServer(cfg *config.Config, database *sql.DB) (*server, error) {
	tokens, err := session.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(newSource(cfg, database), session.Config{
		PageSize:         cfg.PageSize,
		Locale:           parseLocale(cfg.Locale),
		LoadMoreCooldown: cfg.LoadMoreCooldown,
	}, cfg.SessionTTL)

	limiter := middleware.NewRateLimiter(cfg.InternalKey, "/api/gallery/fetch")
	h := handler.New(sessions, tokens, cfg.IsProduction())

	return &server{
		cfg:      cfg,
		handler:  setupRouter(h, limiter, cfg.CORSOrigin),
		sessions: sessions,
		limiter:  limiter,
	}, nil
}

func newSource(cfg *config.Config, database *sql.DB) catalog.Source {
	if cfg.UsesDatabase() && database != nil {
		return catalog.NewRepository(database)
	}
	return catalog.NewHTTPSource(cfg.CatalogURL, cfg.CatalogTimeout)
}

func parseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		logger.L().Warn("invalid GALLERY_LOCALE, using English", zap.String("locale", s), zap.Error(err))
		return language.English
	}
	return tag
}

func setupRouter(h *handler.Handler, limiter *middleware.RateLimiter, corsOrigin string) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)

	var root http.Handler = mux
	root = limiter.Middleware(root)
	root = middleware.CORS(corsOrigin)(root)
	root = logger.LoggingMiddleware(root)
	root = logger.RequestIDMiddleware(root)
	return root
}

// serve runs the HTTP server and the background janitors until ctx is done
// or the server stops, then shuts everything down.
func (s *server) serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpSrv := &http.Server{
		Addr:              ":" + s.cfg.AppPort,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.sessions.Run(gctx) })
	g.Go(func() error { return s.limiter.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return startServerFunc(httpSrv)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.L().Info("server stopped")
		return nil
	})

	return g.Wait()
}

func startServer(srv *http.Server) error {
	logger.L().Info("gallery server running", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
