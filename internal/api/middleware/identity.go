package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// DefaultDevUserID 未携带身份头时使用的联调用户
const DefaultDevUserID uint64 = 1001

// IdentityMiddleware 联调环境的身份注入：
// 从 X-User-ID 头读取当前用户，缺省回退到固定演示账号。
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := DefaultDevUserID
		if v := c.GetHeader("X-User-ID"); v != "" {
			if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
				userID = parsed
			}
		}
		c.Set("user_id", userID)
		c.Next()
	}
}
