package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/db"
	"github.com/qtr-deagle/trendle-backend/internal/db/models"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"github.com/qtr-deagle/trendle-backend/internal/utils"
	"go.uber.org/zap"
)

// AdminMiddleware 管理员权限检查中间件
// 必须在 AuthMiddleware 之后使用
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从上下文获取用户ID
		userID, exists := c.Get("userID")
		if !exists {
			utils.ResponseError(c, utils.CodeUnauthorized, errors.New("未登录"))
			c.Abort()
			return
		}

		// 查询用户并检查管理员标记
		var user models.User
		if err := db.GetDB().First(&user, userID.(uint)).Error; err != nil {
			logger.Error("检查管理员权限失败", zap.Error(err), zap.Any("user_id", userID))
			utils.ResponseError(c, utils.CodeForbidden, errors.New("没有权限执行此操作"))
			c.Abort()
			return
		}

		if !user.IsAdmin || !user.Status {
			utils.ResponseError(c, utils.CodeForbidden, errors.New("没有权限执行此操作"))
			c.Abort()
			return
		}

		c.Next()
	}
}
