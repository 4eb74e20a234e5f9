package middleware

import (
	"strings" // String manipulation

	"skate_marketplace/internal/apperr" // Error envelope
	"skate_marketplace/internal/domain" // Principal
	"skate_marketplace/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates bearer tokens and stores the caller in the context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			apperr.Abort(c, apperr.Unauthenticated("Missing or invalid Authorization header"))
			return
		}
		claims, err := utils.ParseJWT(strings.TrimSpace(tokenStr), secret)
		if err != nil || claims.UserID() == "" {
			apperr.Abort(c, apperr.Unauthenticated("Invalid or expired token"))
			return
		}
		c.Set(UserIDKey, claims.UserID())
		c.Set(PrincipalKey, domain.Principal{
			UserID: claims.UserID(),
			Email:  claims.Email,
			Role:   domain.Role(claims.Role),
		})
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by the auth chain
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
