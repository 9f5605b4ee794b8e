package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"normscope/domain/cohort"
	"normscope/internal"
	"normscope/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard application: one loaded table, one assessor, and a
// weighted semaphore of capacity 1 that serializes every recompute pass so
// interactions are handled strictly one at a time.
type App struct {
	router    *chi.Mux
	table     *cohort.Table
	assessor  ports.Assessor
	templates *template.Template
	defaults  cohort.Filter
	sem       *semaphore.Weighted
	last      *lastResult
	log       *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
	// Filter supplies the dashboard's initial age/IQ ranges.
	Filter cohort.Filter
}

// NewApp creates the dashboard over an already-loaded table.
func NewApp(config Config, table *cohort.Table, assessor ports.Assessor) (*App, error) {
	if table == nil {
		return nil, fmt.Errorf("ui: table is nil")
	}
	if err := config.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("ui: default filter: %w", err)
	}

	funcMap := template.FuncMap{
		"fmtNum": func(v float64) string {
			return strconv.FormatFloat(v, 'g', -1, 64)
		},
		"fmtStat": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		table:     table,
		assessor:  assessor,
		templates: templates,
		defaults:  config.Filter,
		sem:       semaphore.NewWeighted(1),
		last:      &lastResult{},
		log:       internal.DefaultLogger.Named("ui"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	a.router.Handle("/static/*", http.FileServer(http.FS(embeddedFiles)))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Post("/assess", a.handleAssess)
	a.router.Get("/report", a.handleReport)
	a.router.Get("/report.md", a.handleReportDownload)
	a.router.Get("/healthz", a.handleHealthz)

	// API endpoints
	a.router.Get("/api/summary", a.handleAPISummary)
	a.router.Get("/api/score", a.handleAPIScore)
	a.router.Get("/api/assessment", a.handleAPIAssessment)
}

// Router exposes the configured handler, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(port string) error {
	addr := ":" + port
	a.log.Info("starting dashboard on %s (source=%s records=%d)", addr, a.table.Source, a.table.RowCount())
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	a.renderTemplateStatus(w, http.StatusOK, templateName, data)
}

func (a *App) renderTemplateStatus(w http.ResponseWriter, status int, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
	}
}

// HTMX helpers
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
