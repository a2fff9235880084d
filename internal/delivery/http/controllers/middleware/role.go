package middleware

import (
	"CourseMarket/internal/delivery/http/controllers/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		raw, exists := c.Get(ClientRolesCtx)
		if !exists {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "roles not found")
			return
		}

		roles, ok := raw.([]string)
		if !ok {
			response.Abort(c, http.StatusInternalServerError, response.CodeInternal, "invalid roles format")
			return
		}

		for _, role := range roles {
			if _, allowed := roleSet[role]; allowed {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, response.CodeForbidden, "insufficient permissions")
	}
}
