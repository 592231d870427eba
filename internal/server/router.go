package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ardelis/equipsense-backend/internal/handlers"
	"github.com/ardelis/equipsense-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLog            *middleware.RequestLogMiddleware
	EquipmentHandler      *handlers.EquipmentHandler
	EquipmentTypeHandler  *handlers.EquipmentTypeHandler
	ClassificationHandler *handlers.ClassificationHandler
	AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cfg.RequestLog.Handle())

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Taxonomy
		api.GET("/equipment-types/options", cfg.EquipmentTypeHandler.Options)
		api.GET("/equipment-types/summary", cfg.EquipmentTypeHandler.Summary)
		api.GET("/equipment-types/:id/path", cfg.EquipmentTypeHandler.Path)
		api.POST("/equipment-types", cfg.EquipmentTypeHandler.Create)
		api.POST("/equipment-types/resolve", cfg.EquipmentTypeHandler.Resolve)
		api.POST("/equipment-types/cascade", cfg.EquipmentTypeHandler.Cascade)

		// Classification
		api.POST("/classify", cfg.ClassificationHandler.Classify)

		// Equipment
		api.POST("/equipment", cfg.EquipmentHandler.Create)
		api.GET("/equipment", cfg.EquipmentHandler.List)
		api.GET("/equipment/:id", cfg.EquipmentHandler.Get)
		api.PATCH("/equipment/:id/type", cfg.EquipmentHandler.SetType)
		api.DELETE("/equipment/:id", cfg.EquipmentHandler.Delete)
	}

	return router
}
