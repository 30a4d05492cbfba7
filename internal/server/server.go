package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolhub/internal/database"
	"schoolhub/internal/domain/school"
	"schoolhub/internal/filestore"
	"schoolhub/internal/logger"
	"schoolhub/internal/metrics"
	"schoolhub/internal/middleware"
)

// ImagePath is the public prefix for stored school images.
const ImagePath = "/schoolImages"

// Options configures New.
type Options struct {
	UploadDir      string
	AllowedOrigins []string
	MetricsEnabled bool
}

// App bundles the wired components behind the HTTP router.
type App struct {
	Router  *gin.Engine
	Service *school.Service
	Files   *filestore.Store
	Events  *school.Hub

	db  *gorm.DB
	log zerolog.Logger
}

// New wires the record store, file store, change feed and metrics into a gin engine.
func New(db *gorm.DB, opts Options) (*App, error) {
	if err := school.Migrate(db); err != nil {
		return nil, err
	}

	files, err := filestore.New(opts.UploadDir)
	if err != nil {
		return nil, err
	}

	log := logger.WithComponent("http")
	repo := school.NewRepository(db)
	hub := school.NewHub(middleware.CheckOrigin(opts.AllowedOrigins))
	publishers := []school.Publisher{hub}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.ErrorLogger(log))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.MetricsEnabled {
		collector := metrics.NewCollector()
		httpMetrics := metrics.NewHTTPMetrics(collector)
		publishers = append(publishers, metrics.NewSchoolMetrics(collector, repo))
		r.Use(httpMetrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler(collector)))
	}

	service := school.NewService(repo, files, publishers...)
	handler := school.NewHandler(service, hub)

	r.Static(ImagePath, files.Dir())

	app := &App{Router: r, Service: service, Files: files, Events: hub, db: db, log: log}
	r.GET("/healthz", app.health)

	api := r.Group("/api")
	handler.RegisterRoutes(api)

	return app, nil
}

func (a *App) health(c *gin.Context) {
	if err := database.Ping(c.Request.Context(), a.db, 2*time.Second); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down within shutdownTimeout.
func (a *App) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutdown signal received, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info().Msg("server stopped gracefully")
	return nil
}
