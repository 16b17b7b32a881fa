package handlers

import (
	"window_advisor/internal/logger"
	"window_advisor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "window_advisor/docs" // registers the swagger spec
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	limiter  *RateLimiter
}

// NewHandler constructs a new HTTP handler with dependencies. A nil limiter
// disables rate limiting.
func NewHandler(services *service.Service, log *logger.Logger, limiter *RateLimiter) *Handler {
	return &Handler{services: services, log: log, limiter: limiter}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.limiter != nil {
		router.Use(h.limiter.Middleware())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// State stream; browsers cannot set headers on upgrade, so the token may
	// also come as ?access_token=
	router.GET("/ws", h.operatorMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerStateRoutes(api)
		h.registerHistoryRoutes(api)
		api.POST("/check", h.runCheck)
	}
}

func (h *Handler) registerStateRoutes(api *gin.RouterGroup) {
	state := api.Group("/state")
	{
		state.GET("", h.getState)
		// Body example: {"window_state":"open"}
		state.POST("/window", h.setWindow)
		// Body example: {"mode":"heating"}
		state.POST("/mode", h.setMode)
		state.POST("/reset", h.resetNotifications)
	}
	api.GET("/status", h.getStatus)
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("/readings", h.listReadings)
		history.GET("/notifications", h.listNotifications)
	}
}
