package routes

import (
	"github.com/gin-gonic/gin"

	"taskdeck/internal/controller"
	"taskdeck/internal/middleware"
)

func Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready)

	// Identification: no header required, the body names the user
	router.POST("/api/users", controller.CreateUser)

	// Task routes: scoped per user by the X-User-Name header
	api := router.Group("/api")
	api.Use(middleware.Identity())
	{
		api.GET("/todos", controller.ListTasks)
		api.POST("/todos", controller.CreateTask)
		api.PUT("/todos/:id", controller.UpdateTask)
		api.PUT("/todos/:id/toggle", controller.ToggleTask)
		api.DELETE("/todos/:id", controller.DeleteTask)
	}

	return router
}
