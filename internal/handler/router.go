package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auction-engine/internal/handler/api"
	"auction-engine/internal/handler/middleware"
	"auction-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, lotHandler *api.LotHandler, bidHandler *api.BidHandler, adminHandler *api.AdminHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, lotHandler, bidHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, lotHandler *api.LotHandler, bidHandler *api.BidHandler, adminHandler *api.AdminHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		lots := apiGroup.Group("/lots")
		{
			addRoutes(lots, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: lotHandler.GetLot},
				{Method: http.MethodGet, Path: "/:id/bids", Handler: lotHandler.GetBidHistory},
			})

			authRequired := lots.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/:id/bids", Handler: bidHandler.PlaceBid},
				{Method: http.MethodPut, Path: "/:id/proxy-bid", Handler: bidHandler.SetProxyBid},
			})
		}

		admin := apiGroup.Group("/admin/lots")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/:id/open", Handler: adminHandler.OpenLot},
				{Method: http.MethodPost, Path: "/:id/close", Handler: adminHandler.CloseLot},
				{Method: http.MethodPost, Path: "/close-expired", Handler: adminHandler.CloseExpiredLots},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
