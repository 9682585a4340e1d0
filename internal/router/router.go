package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/colabri-doc/internal/docs"
	"github.com/iliyamo/colabri-doc/internal/handler"    // import the handlers that implement each endpoint
	"github.com/iliyamo/colabri-doc/internal/middleware" // import request logging, CORS and rate limiting
)

// UseMiddleware installs the middleware shared by every route. Recover sits
// inside the logger so a panicking handler is still logged as a 500.
func UseMiddleware(e *echo.Echo, allowedOrigins []string) {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(middleware.CORS(allowedOrigins))
}

// RegisterDocs registers the landing page, the Swagger UI and the OpenAPI
// document. None of them require anything beyond the pre-rendered content.
func RegisterDocs(e *echo.Echo, d *handler.DocsHandler) {
	e.GET("/", d.Landing)
	e.GET(docs.UIPath, d.SwaggerUI)
	e.GET(docs.SpecPath, d.OpenAPI)
}

// RegisterAPI registers the JSON endpoints under /api. The limiter only
// applies to this group; pass a no-op middleware to disable it.
func RegisterAPI(e *echo.Echo, items *handler.ItemHandler, ready *handler.ReadyHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api", limiter)
	// Map GET /api/health to the Health handler.  Load balancers and
	// monitoring systems use it to verify that the process is up.
	g.GET("/health", handler.Health)
	// Readiness reports whether the optional dependencies answer.
	g.GET("/ready", ready.Ready)
	// Item creation echoes the body back with a fresh identifier.
	g.POST("/items", items.CreateItem)
}

// RegisterWebSocket registers the echo socket at /ws.
func RegisterWebSocket(e *echo.Echo, h *handler.WebSocketHandler) {
	e.GET("/ws", h.Serve)
}

// RegisterMetrics exposes the Prometheus registry at /metrics.
func RegisterMetrics(e *echo.Echo, h http.Handler) {
	e.GET("/metrics", echo.WrapHandler(h))
}
