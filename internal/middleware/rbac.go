package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gym-class-api/internal/models"
	appErrors "github.com/noah-isme/gym-class-api/pkg/errors"
	"github.com/noah-isme/gym-class-api/pkg/response"
)

// RequireRoles lets the request through only when the token role is one of
// roles. SUPERADMIN passes every check.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles)+1)
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	allowed[models.RoleSuperAdmin] = struct{}{}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; ok {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}
