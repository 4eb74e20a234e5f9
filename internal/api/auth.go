package api

import (
	"net/http" // HTTP status codes

	"skate_marketplace/internal/dto"     // Request bodies
	"skate_marketplace/internal/service" // Credential flows

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterHandler creates a USER account and signs it in
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := auth.Register(c.Request.Context(), req)
		reply(c, http.StatusCreated, resp, err)
	}
}

// LoginHandler exchanges email and password for an access token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err := auth.Login(c.Request.Context(), req)
		reply(c, http.StatusOK, resp, err)
	}
}

// HealthHandler reports liveness without touching dependencies
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
