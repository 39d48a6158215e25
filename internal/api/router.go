package api

import (
	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/api/handlers"
	"github.com/qtr-deagle/trendle-backend/internal/api/middleware"
	"github.com/qtr-deagle/trendle-backend/internal/audit"
	"github.com/qtr-deagle/trendle-backend/internal/config"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// 创建Gin实例
	router := gin.New()

	// 全局中间件
	router.Use(
		gin.Recovery(),                   // 内置恢复中间件
		middleware.RecoveryMiddleware(),  // 自定义恢复中间件
		middleware.RequestIDMiddleware(), // 请求ID中间件
		middleware.LoggerMiddleware(),    // 日志中间件
		middleware.CorsMiddleware(),      // 跨域中间件
	)

	// 创建审计日志组件
	recorder := audit.NewRecorder(db)
	queryService := audit.NewQueryService(db)

	// 创建处理器
	auditLogHandler := handlers.NewAuditLogHandler(queryService)
	userHandler := handlers.NewUserHandler(db, recorder)
	tagHandler := handlers.NewTagHandler(db, recorder)
	categoryHandler := handlers.NewCategoryHandler(db, recorder)
	reportHandler := handlers.NewReportHandler(db, recorder)
	contactMessageHandler := handlers.NewContactMessageHandler(db, recorder)

	// 管理后台路由（需要认证且必须是管理员）
	admin := router.Group("/api/v1/admin")
	admin.Use(
		middleware.AuthMiddleware(&cfg.JWT), // 认证中间件
		middleware.AdminMiddleware(),        // 管理员权限中间件
	)
	{
		// 审计日志
		logs := admin.Group("/logs")
		{
			logs.GET("", auditLogHandler.ListAuditLogs)
			logs.GET("/activity-stats", auditLogHandler.ActivityStats)
			logs.GET("/audit-trail", auditLogHandler.AuditTrail)
			logs.GET("/:id", auditLogHandler.GetAuditLog)
		}

		// 用户管理
		users := admin.Group("/users")
		{
			users.GET("", userHandler.List)
			users.POST("/:id/ban", userHandler.Ban)
			users.POST("/:id/unban", userHandler.Unban)
		}

		// 标签管理
		tags := admin.Group("/tags")
		{
			tags.GET("", tagHandler.List)
			tags.POST("", tagHandler.Create)
			tags.PUT("/:id", tagHandler.Update)
			tags.DELETE("/:id", tagHandler.Delete)
			tags.POST("/merge", tagHandler.Merge)
		}

		// 分类管理
		categories := admin.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		// 举报管理
		reports := admin.Group("/reports")
		{
			reports.GET("", reportHandler.List)
			reports.PUT("/:id/status", reportHandler.UpdateStatus)
		}

		// 联系留言管理
		messages := admin.Group("/contact-messages")
		{
			messages.GET("", contactMessageHandler.List)
			messages.POST("/:id/reply", contactMessageHandler.Reply)
		}
	}

	return router
}
