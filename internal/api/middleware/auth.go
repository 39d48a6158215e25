package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/auth"
	"github.com/qtr-deagle/trendle-backend/internal/config"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"github.com/qtr-deagle/trendle-backend/internal/utils"
	"go.uber.org/zap"
)

// AuthMiddleware 认证中间件
func AuthMiddleware(jwtConfig *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取 JWT 令牌
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ResponseError(c, utils.CodeUnauthorized, errors.New("未提供认证令牌"))
			c.Abort()
			return
		}

		// 检查 Authorization 头格式
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.ResponseError(c, utils.CodeUnauthorized, errors.New("认证令牌格式错误"))
			c.Abort()
			return
		}

		// 解析令牌
		token := parts[1]
		claims, err := auth.ParseToken(token, jwtConfig)
		if err != nil {
			logger.Warn("解析令牌失败", zap.Error(err))
			utils.ResponseError(c, utils.CodeUnauthorized, errors.New("无效的认证令牌"))
			c.Abort()
			return
		}

		// 将用户信息存储到上下文中
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}
