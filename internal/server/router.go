package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rodamarket/backend/internal/handlers"
	"github.com/rodamarket/backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	VehicleHandler      *handlers.VehicleHandler
	NotificationHandler *handlers.NotificationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Vehicles
	protected.POST("/vehicles", cfg.VehicleHandler.Create)
	protected.GET("/vehicles", cfg.VehicleHandler.ListMine)
	protected.GET("/vehicles/alerts", cfg.VehicleHandler.DocumentAlerts)
	protected.GET("/vehicles/:id/recommendations", cfg.VehicleHandler.Recommendations)
	protected.POST("/vehicles/:id/service-records", cfg.VehicleHandler.AddServiceRecord)
	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.ListMine)
	protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	return router
}
