package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gazecenter/app"
	"gazecenter/domain/gaze"
	"gazecenter/internal"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard: page, charts, uploads and the reactive socket
type App struct {
	router    *chi.Mux
	service   *app.AnalysisService
	api       http.Handler
	templates *template.Template
	config    Config
	logger    *internal.Logger
}

// Config holds dashboard settings
type Config struct {
	DefaultRadiusDeg float64
	UploadMaxBytes   int64
}

// NewApp creates the dashboard. api, when non-nil, is mounted under /api.
func NewApp(service *app.AnalysisService, api http.Handler, config Config) (*App, error) {
	if config.DefaultRadiusDeg == 0 {
		config.DefaultRadiusDeg = gaze.DefaultRadiusDeg
	}
	if config.UploadMaxBytes <= 0 {
		config.UploadMaxBytes = 10 << 20
	}

	funcMap := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		api:       api,
		templates: templates,
		config:    config,
		logger:    internal.DefaultLogger.With("UI"),
	}

	a.setupMiddleware()
	if err := a.setupRoutes(); err != nil {
		return nil, err
	}
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() error {
	static, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Websocket upgrades must not go through the compressor
	a.router.Get("/ws", a.handleWS)

	a.router.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/", a.handleIndex)
		r.Get("/report", a.handleReport)
	})
	a.router.Get("/charts/{scope}/{kind}.png", a.handleChart)
	a.router.Post("/upload", a.handleUpload)

	if a.api != nil {
		a.router.Mount("/api", a.api)
	}
	return nil
}

// Handler returns the dashboard's HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the dashboard on addr until ctx is cancelled
func (a *App) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting gaze dashboard on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("Shutting down gaze dashboard")
		return srv.Shutdown(shutdownCtx)
	}
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
