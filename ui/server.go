package ui

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commuteboard/app"
)

// Server is the password-gated front end. When DASHBOARD_PASSWORD is unset
// it behaves exactly like the open App; when set, every dashboard route
// sits behind a login page.
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	templates *template.Template
	password  string
	sessions  *sessionStore
}

// NewServer creates the gated front end over a dashboard service.
func NewServer(service *app.DashboardService, password string) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		service:   service,
		templates: templates,
		password:  password,
		sessions:  newSessionStore(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server.
func (s *Server) Start(addr string) error {
	if s.password == "" {
		log.Printf("[Server] DASHBOARD_PASSWORD not set, dashboard is open")
	}
	log.Printf("[Server] commute dashboard listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.StaticFS("/static", http.FS(mustSub("static")))

	s.router.GET("/login", s.handleLoginPage)
	s.router.POST("/login", s.handleLogin)
	s.router.POST("/logout", s.handleLogout)

	gated := s.router.Group("/", s.requireSession())
	gated.GET("/", s.handleIndex)
	gated.GET("/itineraries/:id", s.handleItinerary)
	gated.GET("/help", s.handleHelp)
	gated.GET("/export.xlsx", s.handleExport)
	gated.GET("/api/itineraries/:id/by-time", s.handleByTime)
	gated.GET("/api/itineraries/:id/by-weekday", s.handleByWeekday)
	gated.POST("/api/refresh", s.handleRefresh)
}

// requireSession gates dashboard routes when a password is configured.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.password == "" {
			c.Next()
			return
		}
		token, _ := c.Cookie(sessionCookie)
		if !s.sessions.Valid(token) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) handleLoginPage(c *gin.Context) {
	if s.password == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	renderTemplate(c.Writer, s.templates, "login.html", map[string]interface{}{})
}

func (s *Server) handleLogin(c *gin.Context) {
	if s.password == "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if !checkPassword(s.password, c.PostForm("password")) {
		log.Printf("[Server] rejected login attempt from %s", c.ClientIP())
		c.Status(http.StatusUnauthorized)
		renderTemplate(c.Writer, s.templates, "login.html", map[string]interface{}{
			"Error": "Wrong password",
		})
		return
	}

	token := s.sessions.Issue()
	c.SetCookie(sessionCookie, token, int(sessionLifetime.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Revoke(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) handleIndex(c *gin.Context) {
	snap := s.service.Snapshot()
	renderTemplate(c.Writer, s.templates, "dashboard.html", map[string]interface{}{
		"Tabs":        tabViews(snap),
		"RefreshedAt": snap.RefreshedAt,
		"Gated":       s.password != "",
	})
}

func (s *Server) handleItinerary(c *gin.Context) {
	snap := s.service.Snapshot()
	tab, ok := snap.Tab(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, "unknown itinerary")
		return
	}
	renderTemplate(c.Writer, s.templates, "itinerary.html", map[string]interface{}{
		"Tab":         tabView{ID: tab.ID, Name: tab.Name, Warning: tab.Warning, SampleCount: tab.SampleCount},
		"RefreshedAt": snap.RefreshedAt,
	})
}

func (s *Server) handleHelp(c *gin.Context) {
	renderTemplate(c.Writer, s.templates, "help.html", map[string]interface{}{
		"Content": helpHTML(),
	})
}

func (s *Server) handleByTime(c *gin.Context) {
	s.writeTabRows(c, false)
}

func (s *Server) handleByWeekday(c *gin.Context) {
	s.writeTabRows(c, true)
}

func (s *Server) writeTabRows(c *gin.Context, byWeekday bool) {
	tab, ok := s.service.Snapshot().Tab(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown itinerary"})
		return
	}
	rows := tab.ByTime
	if byWeekday {
		rows = tab.ByWeekday
	}
	c.JSON(http.StatusOK, gin.H{
		"itinerary": tab.ID,
		"warning":   tab.Warning,
		"rows":      chartRows(rows),
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.service.Refresh(c.Request.Context()); err != nil {
		log.Printf("[Server] manual refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExport(c *gin.Context) {
	writeWorkbook(c.Writer, s.service.Snapshot())
}
