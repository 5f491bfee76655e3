package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-bookshelf/internal/core/auth"
	resp "go-gin-bookshelf/internal/transport/http/response"
)

// KeyUserID 由 AuthJWT 注入，后续 handler 用 c.GetUint 取
const KeyUserID = "userID"

// AuthJWT 保护路由的闸门：Bearer token 校验通过才放行
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}
