package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"distlab/app"
	"distlab/internal"
)

//go:embed templates/*.html templates/fragments/*.html static/*
var embeddedFiles embed.FS

// App is the HTML explorer
type App struct {
	router    *chi.Mux
	explorer  *app.ExplorerService
	templates *template.Template
	logger    *internal.Logger
}

// NewApp parses the embedded templates and builds the router
func NewApp(explorer *app.ExplorerService, logger *internal.Logger) (*App, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"fmtFloat": formatFloat,
		"percent":  func(v float64) string { return fmt.Sprintf("%.1f%%", 100*v) },
		"add":      func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		explorer:  explorer,
		templates: templates,
		logger:    logger.With("ui"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// Handler exposes the router for http.Server and tests
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(a.requestLogger)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/distributions/{id}", a.handleDistribution)
	a.router.Get("/compare", a.handleCompare)

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		a.logger.Error("static files unavailable: %v", err)
		return
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
}

func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Debug("%s %s -> %d (%s) request=%s", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// renderTemplate renders to a buffer first so template errors never produce a half-written page
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("writing %s response: %v", templateName, err)
	}
}
