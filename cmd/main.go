package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/qtr-deagle/trendle-backend/internal/api"
	"github.com/qtr-deagle/trendle-backend/internal/config"
	"github.com/qtr-deagle/trendle-backend/internal/db"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"github.com/qtr-deagle/trendle-backend/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// 加载 .env 文件（不存在时忽略）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.LoadConfig("configs", os.Getenv("APP_ENV"))
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 初始化日志系统
	if err := logger.InitLogger(&cfg.Log); err != nil {
		panic(fmt.Sprintf("初始化日志系统失败: %v", err))
	}
	defer logger.Sync()

	logger.Info("Trendle管理后台服务启动中...")
	logger.Info("配置加载成功", zap.String("env", cfg.App.Env))

	// 初始化验证器
	utils.InitValidator()

	// 初始化数据库
	if err := db.Init(&cfg.Database); err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}

	// 设置路由
	router := api.SetupRouter(cfg, db.GetDB())

	// 创建HTTP服务器
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.App.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.App.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.App.IdleTimeout) * time.Second,
	}

	// 优雅关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 启动HTTP服务器
	go func() {
		logger.Info("HTTP服务器启动成功", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	<-quit
	logger.Info("正在关闭服务器...")

	// 设置关闭超时时间
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 关闭HTTP服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if err := db.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}

	logger.Info("服务器已安全关闭")
}
