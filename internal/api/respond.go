package api

import (
	"net/http" // HTTP status codes

	"skate_marketplace/internal/apperr"     // Error envelope
	"skate_marketplace/internal/domain"     // Principal
	"skate_marketplace/internal/middleware" // Caller lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// MessageResponse acknowledges operations that return no entity
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperr.Respond(c, bindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		apperr.Respond(c, bindError(err))
		return false
	}
	return true
}

// caller returns the authenticated principal; routes using it sit behind the auth chain
func caller(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		apperr.Respond(c, apperr.Unauthenticated("Unauthorized"))
	}
	return p, ok
}

// reply writes v with status, or the error envelope when err is set
func reply(c *gin.Context, status int, v any, err error) {
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(status, v)
}

func deleted(c *gin.Context, what string, err error) {
	reply(c, http.StatusOK, MessageResponse{Success: true, Message: what + " deleted successfully"}, err)
}
