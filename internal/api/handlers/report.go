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

// ReportHandler 举报管理处理器
type ReportHandler struct {
	*BaseHandler
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewReportHandler 创建举报管理处理器
func NewReportHandler(db *gorm.DB, recorder *audit.Recorder) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		recorder:    recorder,
	}
}

// List 获取举报列表
func (h *ReportHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if pageSize <= 0 {
		pageSize = 20
	}

	query := h.db.Model(&models.Report{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if targetType := c.Query("target_type"); targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("获取举报总数失败", zap.Error(err))
		h.InternalError(c, "获取举报总数失败")
		return
	}

	var reports []models.Report
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reports).Error; err != nil {
		logger.Error("获取举报列表失败", zap.Error(err))
		h.InternalError(c, "获取举报列表失败")
		return
	}

	h.Success(c, gin.H{
		"total": total,
		"items": reports,
	})
}

// UpdateStatus 处理举报：标记为已处理或已驳回
// remove_content 为 true 时同时删除被举报的内容，单独记一条审计日志
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "举报ID无效")
		return
	}

	var req struct {
		Status        string `json:"status" validate:"required,report_status"`
		RemoveContent bool   `json:"remove_content"`
		Note          string `json:"note"`
	}
	if err := utils.BindAndValidate(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var report models.Report
	if err := h.db.First(&report, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "举报不存在")
			return
		}
		logger.Error("查询举报失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询举报失败")
		return
	}

	if report.Status != models.ReportStatusPending {
		h.Error(c, utils.CodeInvalidParams, "举报已处理")
		return
	}

	oldStatus := report.Status
	if err := h.db.Model(&report).Update("status", req.Status).Error; err != nil {
		logger.Error("更新举报状态失败", zap.Error(err), zap.Uint("report_id", report.ID))
		h.InternalError(c, "更新举报状态失败")
		return
	}

	adminID := utils.GetUserID(c)
	reportID := report.ID
	h.recorder.MustRecord(adminID, "update_report_status", "report", &reportID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": req.Status,
		"note":       req.Note,
	})

	// 举报成立时可顺带删除被举报内容
	if req.Status == models.ReportStatusResolved && req.RemoveContent {
		h.removeReportedContent(c, adminID, &report)
	}

	h.Success(c, gin.H{"id": report.ID, "status": req.Status})
}

// removeReportedContent 删除被举报的帖子或评论
func (h *ReportHandler) removeReportedContent(c *gin.Context, adminID uint, report *models.Report) {
	targetID := report.TargetID

	switch report.TargetType {
	case "post":
		if err := h.db.Delete(&models.Post{}, targetID).Error; err != nil {
			logger.Error("删除被举报帖子失败", zap.Error(err), zap.Uint("post_id", targetID))
			return
		}
		h.recorder.MustRecord(adminID, "remove_post", "post", &targetID, map[string]interface{}{
			"report_id": report.ID,
		})
	case "comment":
		if err := h.db.Delete(&models.Comment{}, targetID).Error; err != nil {
			logger.Error("删除被举报评论失败", zap.Error(err), zap.Uint("comment_id", targetID))
			return
		}
		h.recorder.MustRecord(adminID, "remove_comment", "comment", &targetID, map[string]interface{}{
			"report_id": report.ID,
		})
	default:
		logger.Warn("不支持删除的举报目标类型", zap.String("target_type", report.TargetType))
	}
}
