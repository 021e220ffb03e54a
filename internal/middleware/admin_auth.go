// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mgit-community-go/internal/service"
)

// AdminAuthMiddleware 检查请求是否携带有效的管理员会话。
// 会话令牌从 Cookie 中读取，签名校验通过且 Redis 记录存在才放行。
func AdminAuthMiddleware(adminService service.AdminService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未登录"})
			return
		}

		if !adminService.CheckSession(c.Request.Context(), tokenString) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "会话已失效，请重新登录"})
			return
		}

		c.Next()
	}
}
