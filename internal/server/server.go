// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency is built here, once,
// from config.Config:
//
//	store backend (Firebase or SQLite) → repositories
//	verifier (Firebase / Google / local) → optional cache
//	media processor (inline data URIs or bucket uploads)
//	services → handlers → routes
//
// Nothing else in the codebase constructs a client or reads configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/food-gallery/internal/auth"
	"github.com/sakif/food-gallery/internal/config"
	"github.com/sakif/food-gallery/internal/handler"
	"github.com/sakif/food-gallery/internal/media"
	"github.com/sakif/food-gallery/internal/middleware"
	"github.com/sakif/food-gallery/internal/repository"
	firebaseRepo "github.com/sakif/food-gallery/internal/repository/firebase"
	sqliteRepo "github.com/sakif/food-gallery/internal/repository/sqlite"
	"github.com/sakif/food-gallery/internal/service"
)

// tokenCacheKeys bounds the verification cache; one entry per live token.
const tokenCacheKeys = 10_000

const shutdownTimeout = 30 * time.Second

// Server owns the router and every long-lived client. Close (or Start
// returning) releases them.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	closers []func() error
}

// stores is the repository trio produced by one backend.
type stores struct {
	users repository.UserRepository
	posts repository.PostRepository
	tips  repository.TipRepository
}

// New builds the dependency graph described in the package comment.
// On error, anything already opened is closed again.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.wire(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) wire(ctx context.Context) error {
	st, fb, err := s.openBackend(ctx)
	if err != nil {
		return err
	}

	verifier, err := s.newVerifier(ctx, fb)
	if err != nil {
		return err
	}

	processor, err := s.newMediaProcessor(ctx, fb)
	if err != nil {
		return err
	}

	s.setupRoutes(
		service.NewAuthService(st.users, verifier, s.logger),
		service.NewPostService(st.posts, processor, s.config.PostWriteTimeout, s.logger),
		service.NewTipService(st.tips, s.logger),
	)
	return nil
}

// openBackend returns the Firebase backend as well when that is the one in
// use, since the verifier and bucket uploader share its app.
func (s *Server) openBackend(ctx context.Context) (stores, *firebaseRepo.Backend, error) {
	switch s.config.StoreBackend {
	case config.BackendSQLite:
		if s.config.SQLitePath != ":memory:" {
			dir := filepath.Dir(s.config.SQLitePath)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return stores{}, nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}

		db, err := sqliteRepo.New(s.config.SQLitePath)
		if err != nil {
			return stores{}, nil, fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db.Close)

		s.logger.Info("using sqlite backend", slog.String("path", s.config.SQLitePath))
		return stores{users: db.Users(), posts: db.Posts(), tips: db.Tips()}, nil, nil

	case config.BackendFirebase:
		fb, err := firebaseRepo.New(ctx, firebaseRepo.Config{
			CredentialsFile: s.config.Firebase.CredentialsFile,
			ProjectID:       s.config.Firebase.ProjectID,
			DatabaseURL:     s.config.Firebase.DatabaseURL,
			StorageBucket:   s.config.Firebase.StorageBucket,
		})
		if err != nil {
			return stores{}, nil, err
		}
		s.closers = append(s.closers, fb.Close)

		s.logger.Info("using firebase backend", slog.String("database", s.config.Firebase.DatabaseURL))
		return stores{users: fb.Users(), posts: fb.Posts(), tips: fb.Tips()}, fb, nil
	}

	return stores{}, nil, fmt.Errorf("unknown store backend %q", s.config.StoreBackend)
}

func (s *Server) newVerifier(ctx context.Context, fb *firebaseRepo.Backend) (auth.Verifier, error) {
	var (
		v   auth.Verifier
		err error
	)

	switch s.config.AuthVerifier {
	case config.VerifierFirebase:
		if fb == nil {
			return nil, errors.New("firebase verifier requires the firebase backend")
		}
		v = auth.NewFirebaseVerifier(fb.Auth)
	case config.VerifierGoogle:
		v, err = auth.NewGoogleVerifier(ctx, s.config.GoogleClientID)
	case config.VerifierLocal:
		v, err = auth.NewLocalVerifier(s.config.LocalTokenSecret)
	default:
		err = fmt.Errorf("unknown auth verifier %q", s.config.AuthVerifier)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("token verifier ready", slog.String("kind", s.config.AuthVerifier))

	if s.config.TokenCacheTTL <= 0 {
		return v, nil
	}

	cached, err := auth.NewCachingVerifier(v, tokenCacheKeys, s.config.TokenCacheTTL)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() error { cached.Close(); return nil })
	return cached, nil
}

func (s *Server) newMediaProcessor(ctx context.Context, fb *firebaseRepo.Backend) (media.Processor, error) {
	if s.config.MediaStorage != config.MediaBucket {
		return media.DataURIEncoder{}, nil
	}
	if fb == nil {
		return nil, errors.New("bucket media storage requires the firebase backend")
	}

	bucket, err := fb.Bucket(ctx)
	if err != nil {
		return nil, err
	}
	return media.NewBucketUploader(bucket, s.logger), nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTES:
//
//	GET    /healthz
//	POST   /api/auth/signup
//	POST   /api/auth/login
//	PUT    /api/auth/update-profile
//	POST   /api/posts
//	GET    /api/posts/category/{category}
//	GET    /api/posts/{id}
//	PUT    /api/posts/{id}
//	DELETE /api/posts/{id}
//	POST   /api/decoration-tips
//	GET    /api/decoration-tips
//	GET    /api/decoration-tips/category/{category}
//	GET    /api/decoration-tips/{id}
//	PUT    /api/decoration-tips/{id}
//	DELETE /api/decoration-tips/{id}
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so the logger can print it; Recoverer sits inside
// the logger so a panic is still logged as a 500. CORS answers preflight
// requests before they reach any handler.
func (s *Server) setupRoutes(authSvc *service.AuthService, postSvc *service.PostService, tipSvc *service.TipService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.config.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		MaxAge:         300,
	}))

	authHandler := handler.NewAuthHandler(authSvc, s.logger)
	postHandler := handler.NewPostHandler(postSvc, s.config.MaxUploadBytes, s.logger)
	tipHandler := handler.NewTipHandler(tipSvc, s.logger)

	s.router.Get("/healthz", handler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.Put("/update-profile", authHandler.HandleUpdateProfile)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postHandler.HandleCreate)
			r.Get("/category/{category}", postHandler.HandleListByCategory)
			r.Get("/{id}", postHandler.HandleGetByID)
			r.Put("/{id}", postHandler.HandleUpdate)
			r.Delete("/{id}", postHandler.HandleDelete)
		})

		r.Route("/decoration-tips", func(r chi.Router) {
			r.Post("/", tipHandler.HandleCreate)
			r.Get("/", tipHandler.HandleList)
			r.Get("/category/{category}", tipHandler.HandleListByCategory)
			r.Get("/{id}", tipHandler.HandleGetByID)
			r.Put("/{id}", tipHandler.HandleUpdate)
			r.Delete("/{id}", tipHandler.HandleDelete)
		})
	})
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases clients in reverse order of creation.
func (s *Server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes every client.
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing resources", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second, // multipart uploads
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("backend", s.config.StoreBackend),
			slog.String("verifier", s.config.AuthVerifier),
			slog.String("media", s.config.MediaStorage),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

var _ io.Closer = (*Server)(nil)
