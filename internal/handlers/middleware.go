package handlers

import (
	"net/http"
	"strings"

	"github.com/UniFest-2025/event-service/internal/auth"
	"github.com/UniFest-2025/event-service/internal/models"
	"github.com/UniFest-2025/event-service/internal/services"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware verifies the bearer token and loads the live subject.
// Tokens pointing at deleted, deactivated or password-rotated accounts are
// rejected here, before any handler runs.
func AuthMiddleware(tokens *auth.Manager, authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Status:  statusFail,
				Message: "You are not logged in. Please log in to get access",
			})
			return
		}

		claims, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Status:  statusFail,
				Message: err.Error(),
			})
			return
		}

		principal, err := authService.Authenticate(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Status:  statusFail,
				Message: err.Error(),
			})
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.ID)
		c.Set("user_role", principal.Role)
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Status:  statusFail,
				Message: "You are not logged in. Please log in to get access",
			})
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Status:  statusFail,
			Message: "You do not have permission to perform this action",
		})
	}
}

// Principal returns the authenticated subject set by AuthMiddleware.
func Principal(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*models.User)
	return principal, ok
}

// RequirePrincipal is the handler-side guard for routes that must be
// authenticated; it writes the 401 itself when the subject is absent.
func (h *BaseHandler) RequirePrincipal(c *gin.Context) (*models.User, bool) {
	principal, ok := Principal(c)
	if !ok {
		h.RespondFail(c, http.StatusUnauthorized, "You are not logged in. Please log in to get access")
		return nil, false
	}
	return principal, true
}
