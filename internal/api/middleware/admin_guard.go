package middleware

import (
	"Echowall/internal/api/config"
	"Echowall/internal/pkg/response"
	"Echowall/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminGuardMiddleware 管理端接口的令牌校验。
// 未配置 admin_token 时放行，便于本地联调。
func AdminGuardMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if config.Cfg != nil {
			token = config.Cfg.Server.AdminToken
		}
		if token == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		auth = strings.TrimPrefix(auth, "Bearer ")
		if auth != token {
			response.Fail(c, response.Unauthorized, service.UnauthorizedError.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}
