package handlers

import (
	"net/http"

	"github.com/iwtcode/focasBridge/internal/config"
	"github.com/iwtcode/focasBridge/internal/interfaces"
	"github.com/iwtcode/focasBridge/internal/metrics"
	"github.com/iwtcode/focasBridge/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	bridge interfaces.Bridge
	logger *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(bridge interfaces.Bridge, logger *logging.Logger) *Handler {
	return &Handler{
		bridge: bridge,
		logger: logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, m *metrics.Metrics) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(h.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnable && m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/available", h.IsAvailable)
		v1.POST("/connect", h.Connect)
		v1.POST("/disconnect", h.Disconnect)

		handles := v1.Group("/handles/:handle")
		{
			handles.GET("/dynamic", h.ReadDynamic)
			handles.GET("/status", h.ReadStatus)
			handles.GET("/alarms", h.ReadAlarms)
		}
	}

	return router
}
