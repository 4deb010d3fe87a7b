package handlers

import (
	"power_relay/internal/logger"
	"power_relay/internal/service"

	_ "power_relay/docs"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log.Named("http")}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Status stream on the same port
	router.GET("/ws", h.wsAuthMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/status", h.getStatus)
		api.GET("/power", h.getPower)
		h.registerRelayRoutes(api)
		h.registerTimerRoutes(api)
		h.registerProtectionRoutes(api)
		h.registerVoltageRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerRelayRoutes(api *gin.RouterGroup) {
	relays := api.Group("/relays")
	{
		relays.GET("", h.getRelays)
		// Body example: {"state":true}
		relays.POST("/:channel", h.setRelay)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timers := api.Group("/timers")
	{
		timers.GET("", h.listTimers)
		// Body example: {"relayId":0,"hour":7,"minute":30,"state":true,"repeat":2}
		timers.POST("", h.addTimer)
		timers.GET("/:id", h.getTimer)
		timers.PUT("/:id", h.updateTimer)
		timers.DELETE("/:id", h.deleteTimer)
	}
}

func (h *Handler) registerProtectionRoutes(api *gin.RouterGroup) {
	protection := api.Group("/protection")
	{
		protection.GET("", h.getProtection)
		// Body example: {"channel1":500,"channel2":0,"channel3":1200}
		protection.POST("", h.setProtection)
		protection.GET("/status", h.getProtectionStatus)
	}
}

func (h *Handler) registerVoltageRoutes(api *gin.RouterGroup) {
	voltage := api.Group("/voltage")
	{
		voltage.GET("", h.getVoltage)
		// Body example: {"voltage":12}
		voltage.POST("", h.setVoltage)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}
