package middleware

import (
	"context" // Request scoped lookup

	"skate_marketplace/internal/apperr" // Error envelope
	"skate_marketplace/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/samber/lo"     // Role lookup
)

// UserLookup loads the account behind a token
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Policy maps "METHOD /route/pattern" to the roles allowed to call it.
// Routes without an entry are open to any authenticated caller.
type Policy map[string][]domain.Role

// Require declares the roles accepted by a route
func (p Policy) Require(method, path string, roles ...domain.Role) Policy {
	p[method+" "+path] = roles
	return p
}

// Roles returns the roles accepted by a route, nil when any caller is accepted
func (p Policy) Roles(method, path string) []domain.Role {
	return p[method+" "+path]
}

// AccessControl loads the caller's account on every request. The stored role and active
// flag decide access, not the token's claims.
func AccessControl(users UserLookup, policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			apperr.Abort(c, apperr.Unauthenticated("Unauthorized"))
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if apperr.Is(err, apperr.KindNotFound) {
			apperr.Abort(c, apperr.Unauthenticated("Account no longer exists"))
			return
		} else if err != nil {
			apperr.Abort(c, err)
			return
		}
		if !user.IsActive {
			apperr.Abort(c, apperr.Forbidden("Account is deactivated"))
			return
		}
		principal := domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
		c.Set(PrincipalKey, principal) // Stored role wins over the token's

		if roles := policy.Roles(c.Request.Method, c.FullPath()); len(roles) > 0 && !lo.Contains(roles, user.Role) {
			apperr.Abort(c, apperr.Forbidden("Insufficient permissions"))
			return
		}
		c.Next()
	}
}
