package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adelgadoc/updownbot/internal/engine"
	"github.com/adelgadoc/updownbot/internal/ports"
	"github.com/adelgadoc/updownbot/internal/tracker"
	"github.com/adelgadoc/updownbot/internal/ws"
)

// Deps bundles every dependency needed to build the router.
// Populated once in main() and passed to NewRouter.
type Deps struct {
	Registry *engine.Registry
	Tracker  *tracker.Tracker
	Books    ports.BookProvider
	Hub      *ws.Hub

	// BaseCtx is the application lifetime context. Engines started over
	// the API run under it, not under the request context.
	BaseCtx context.Context
}

// NewRouter creates the Gin engine with all routes wired.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	s := &server{deps: deps}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/status", s.getStatus)
		api.GET("/assets", s.getAssets)
		api.POST("/assets/:asset/start", s.startAsset)
		api.POST("/assets/:asset/stop", s.stopAsset)
		api.POST("/start-all", s.startAll)
		api.POST("/stop-all", s.stopAll)

		api.GET("/orders", s.getOrders)
		api.GET("/trades", s.getTrades)
		api.GET("/last-trades", s.getLastTrades)

		api.GET("/metrics", s.getMetrics)
		api.GET("/variant-metrics", s.getVariantMetrics)

		api.GET("/markets", s.getMarkets)
		api.GET("/prices/:asset", s.getPrices)

		api.GET("/export/orders", s.exportOrders)
		api.GET("/export/trades", s.exportTrades)
	}

	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWS(c.Writer, c.Request, "")
		})
		r.GET("/ws/:asset", func(c *gin.Context) {
			asset, ok := parseAssetParam(c)
			if !ok {
				return
			}
			deps.Hub.ServeWS(c.Writer, c.Request, asset)
		})
	}

	return r
}

// server holds the handler methods; one instance per router.
type server struct {
	deps Deps
}
