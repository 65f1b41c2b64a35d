package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mtss-api/internal/models"
	appErrors "github.com/noah-isme/mtss-api/pkg/errors"
	"github.com/noah-isme/mtss-api/pkg/response"
)

// RequireRoles lets the request through only when the caller holds one of roles.
// ADMIN is always allowed.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles)+1)
	allowed[models.RoleAdmin] = struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "perfil sem permissão para esta operação"))
			c.Abort()
			return
		}
		c.Next()
	}
}
