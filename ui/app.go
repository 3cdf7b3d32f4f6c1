package ui

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"commuteboard/app"
)

// App is the open dashboard front end: no auth gate, fixed port, the whole
// dashboard reachable by anyone on the network.
type App struct {
	router    *chi.Mux
	service   *app.DashboardService
	templates *template.Template
}

// NewApp creates the open front end over a dashboard service.
func NewApp(service *app.DashboardService) (*App, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/itineraries/{id}", a.handleItinerary)
	a.router.Get("/help", a.handleHelp)
	a.router.Get("/export.xlsx", a.handleExport)

	a.router.Get("/api/itineraries/{id}/by-time", a.handleByTime)
	a.router.Get("/api/itineraries/{id}/by-weekday", a.handleByWeekday)
	a.router.Post("/api/refresh", a.handleRefresh)
}

// Router exposes the handler for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server on all interfaces.
func (a *App) Start(addr string) error {
	log.Printf("[UI] commute dashboard listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := a.service.Snapshot()
	renderTemplate(w, a.templates, "dashboard.html", map[string]interface{}{
		"Tabs":        tabViews(snap),
		"RefreshedAt": snap.RefreshedAt,
	})
}

func (a *App) handleItinerary(w http.ResponseWriter, r *http.Request) {
	snap := a.service.Snapshot()
	tab, ok := snap.Tab(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown itinerary", http.StatusNotFound)
		return
	}
	renderTemplate(w, a.templates, "itinerary.html", map[string]interface{}{
		"Tab":         tabView{ID: tab.ID, Name: tab.Name, Warning: tab.Warning, SampleCount: tab.SampleCount},
		"RefreshedAt": snap.RefreshedAt,
	})
}

func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, a.templates, "help.html", map[string]interface{}{
		"Content": helpHTML(),
	})
}

func (a *App) handleByTime(w http.ResponseWriter, r *http.Request) {
	a.writeTabRows(w, r, false)
}

func (a *App) handleByWeekday(w http.ResponseWriter, r *http.Request) {
	a.writeTabRows(w, r, true)
}

func (a *App) writeTabRows(w http.ResponseWriter, r *http.Request, byWeekday bool) {
	tab, ok := a.service.Snapshot().Tab(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "unknown itinerary", http.StatusNotFound)
		return
	}
	rows := tab.ByTime
	if byWeekday {
		rows = tab.ByWeekday
	}
	writeJSON(w, map[string]interface{}{
		"itinerary": tab.ID,
		"warning":   tab.Warning,
		"rows":      chartRows(rows),
	})
}

func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Refresh(r.Context()); err != nil {
		log.Printf("[UI] manual refresh failed: %v", err)
		http.Error(w, "refresh failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"status": "ok"})
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	writeWorkbook(w, a.service.Snapshot())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[UI] error encoding JSON response: %v", err)
	}
}
