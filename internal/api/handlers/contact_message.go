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

// ContactMessageHandler 联系留言管理处理器
type ContactMessageHandler struct {
	*BaseHandler
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewContactMessageHandler 创建联系留言管理处理器
func NewContactMessageHandler(db *gorm.DB, recorder *audit.Recorder) *ContactMessageHandler {
	return &ContactMessageHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		recorder:    recorder,
	}
}

// List 获取留言列表
func (h *ContactMessageHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if pageSize <= 0 {
		pageSize = 20
	}

	query := h.db.Model(&models.ContactMessage{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("获取留言总数失败", zap.Error(err))
		h.InternalError(c, "获取留言总数失败")
		return
	}

	var messages []models.ContactMessage
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&messages).Error; err != nil {
		logger.Error("获取留言列表失败", zap.Error(err))
		h.InternalError(c, "获取留言列表失败")
		return
	}

	h.Success(c, gin.H{
		"total": total,
		"items": messages,
	})
}

// Reply 回复留言
func (h *ContactMessageHandler) Reply(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "留言ID无效")
		return
	}

	var req struct {
		Reply string `json:"reply" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "必须提供回复内容")
		return
	}

	var message models.ContactMessage
	if err := h.db.First(&message, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "留言不存在")
			return
		}
		logger.Error("查询留言失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询留言失败")
		return
	}

	updates := map[string]interface{}{
		"reply":  req.Reply,
		"status": models.ContactMessageStatusReplied,
	}
	if err := h.db.Model(&message).Updates(updates).Error; err != nil {
		logger.Error("回复留言失败", zap.Error(err), zap.Uint("message_id", message.ID))
		h.InternalError(c, "回复留言失败")
		return
	}

	targetID := message.ID
	h.recorder.MustRecord(utils.GetUserID(c), "reply_contact_message", "contact_message", &targetID, map[string]interface{}{
		"email": message.Email,
	})

	h.Success(c, gin.H{"id": message.ID, "status": models.ContactMessageStatusReplied})
}
