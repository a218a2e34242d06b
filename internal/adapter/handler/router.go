package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	pkgmw "github.com/johnquangdev/meeting-insights/pkg/middleware"
)

// Token scopes checked on /v1 routes
const (
	ScopeRunsWrite = "runs:write"
	ScopeRunsRead  = "runs:read"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	authMW         echo.MiddlewareFunc
	gatherer       prometheus.Gatherer
	components     map[string]string
}

// NewRouter creates a new router with all handlers. authMW may be nil, which
// leaves /v1 open.
func NewRouter(cfg *config.Config, meetingHandler *Meeting, authMW echo.MiddlewareFunc, gatherer prometheus.Gatherer) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		authMW:         authMW,
		gatherer:       gatherer,
		components:     map[string]string{},
	}
}

// SetComponentStatus records the state of an optional dependency for /health
func (rt *Router) SetComponentStatus(name, status string) {
	rt.components[name] = status
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	if rt.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")
	if rt.authMW != nil {
		v1.Use(rt.authMW)
	}

	rt.setupMeetingRoutes(v1)
}

// setupMeetingRoutes configures processing and run routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	write := pkgmw.RequireScope(ScopeRunsWrite)
	read := pkgmw.RequireScope(ScopeRunsRead)

	if rt.meetingHandler == nil {
		g.POST("/meetings/process", rt.notImplemented)
		return
	}

	g.POST("/meetings/process", rt.meetingHandler.ProcessMeeting, write)
	g.GET("/meetings/:id/runs", rt.meetingHandler.ListMeetingRuns, read)
	g.GET("/runs/:id", rt.meetingHandler.GetRun, read)
	g.POST("/transcripts/assemblyai/:id/process", rt.meetingHandler.ImportAssemblyAI, write)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: env,
		Components:  rt.components,
	})
}
