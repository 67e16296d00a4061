package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API on r.
func SetupRoutes(r *gin.Engine, paths *PathHandler, auth *AuthHandler) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	api := r.Group("/api")
	api.POST("/login", auth.Login)
	api.POST("/register", auth.Register)
	api.GET("/me", auth.AuthMiddleware(), auth.Me)

	maps := api.Group("/")
	maps.Use(auth.OptionalAuth())
	{
		maps.POST("/path/find", paths.FindPath)
		maps.GET("/nodes", paths.GetNodes)
		maps.GET("/nodes/search", paths.SearchNodes)
		maps.GET("/nodes/:id", paths.GetNodeByID)
		maps.GET("/route/current", paths.CurrentRoute)
		maps.DELETE("/route/current", paths.ClearRoute)
	}
}
