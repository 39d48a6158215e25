package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/audit"
	"github.com/qtr-deagle/trendle-backend/internal/db/models"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"github.com/qtr-deagle/trendle-backend/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	*BaseHandler
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(db *gorm.DB, recorder *audit.Recorder) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		recorder:    recorder,
	}
}

// List 获取用户列表
func (h *UserHandler) List(c *gin.Context) {
	// 获取分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if pageSize <= 0 {
		pageSize = 20
	}

	// 构建查询
	query := h.db.Model(&models.User{})

	// 处理筛选条件
	if username := c.Query("username"); username != "" {
		query = query.Where("username LIKE ?", "%"+username+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status == "true")
	}

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("获取用户总数失败", zap.Error(err))
		h.InternalError(c, "获取用户总数失败")
		return
	}

	// 获取用户列表
	var users []models.User
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		logger.Error("获取用户列表失败", zap.Error(err))
		h.InternalError(c, "获取用户列表失败")
		return
	}

	h.Success(c, gin.H{
		"total": total,
		"items": users,
	})
}

// Ban 封禁用户
func (h *UserHandler) Ban(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "用户ID无效")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "必须提供封禁原因")
		return
	}

	// 查询目标用户
	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "用户不存在")
			return
		}
		logger.Error("查询用户失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询用户失败")
		return
	}

	if user.IsAdmin {
		h.Error(c, utils.CodeInvalidParams, "不能封禁管理员账号")
		return
	}

	// 封禁用户
	if err := h.db.Model(&user).Update("status", false).Error; err != nil {
		logger.Error("封禁用户失败", zap.Error(err), zap.Uint("user_id", user.ID))
		h.InternalError(c, "封禁用户失败")
		return
	}

	// 记录审计日志
	targetID := user.ID
	h.recorder.MustRecord(utils.GetUserID(c), "ban_user", "user", &targetID, map[string]interface{}{
		"username": user.Username,
		"reason":   req.Reason,
	})

	h.Success(c, gin.H{"id": user.ID, "status": false})
}

// Unban 解除封禁
func (h *UserHandler) Unban(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "用户ID无效")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "用户不存在")
			return
		}
		logger.Error("查询用户失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询用户失败")
		return
	}

	if err := h.db.Model(&user).Update("status", true).Error; err != nil {
		logger.Error("解除封禁失败", zap.Error(err), zap.Uint("user_id", user.ID))
		h.InternalError(c, "解除封禁失败")
		return
	}

	targetID := user.ID
	h.recorder.MustRecord(utils.GetUserID(c), "unban_user", "user", &targetID, map[string]interface{}{
		"username": user.Username,
	})

	h.Success(c, gin.H{"id": user.ID, "status": true})
}
