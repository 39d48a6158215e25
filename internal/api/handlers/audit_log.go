package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/audit"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditLogHandler 审计日志处理器
type AuditLogHandler struct {
	*BaseHandler
	query *audit.QueryService
}

// NewAuditLogHandler 创建审计日志处理器
func NewAuditLogHandler(query *audit.QueryService) *AuditLogHandler {
	return &AuditLogHandler{
		BaseHandler: NewBaseHandler(),
		query:       query,
	}
}

// parseDateParam 解析日期参数，格式 2006-01-02
// 无效值记录警告并忽略
func parseDateParam(c *gin.Context, name string) *time.Time {
	value := c.Query(name)
	if value == "" {
		return nil
	}

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		logger.Warn("无效的日期参数，已忽略",
			zap.String("参数", name),
			zap.String("原始值", value),
			zap.Error(err))
		return nil
	}
	return &date
}

// ListAuditLogs 获取审计日志列表
func (h *AuditLogHandler) ListAuditLogs(c *gin.Context) {
	// 转换并验证分页参数
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	// 限制每页最大数量为100
	if limit > 100 {
		limit = 100
	}

	// 构建筛选条件
	filters := audit.ListFilters{
		Action:     c.Query("action"),
		TargetType: c.Query("target_type"),
		DateFrom:   parseDateParam(c, "start_date"),
		DateTo:     parseDateParam(c, "end_date"),
	}

	if adminIDStr := c.Query("admin_id"); adminIDStr != "" {
		adminID, err := strconv.ParseUint(adminIDStr, 10, 32)
		if err != nil {
			h.BadRequest(c, "admin_id 参数无效")
			return
		}
		id := uint(adminID)
		filters.AdminID = &id
	}

	entries, total, err := h.query.List(filters, page, limit)
	if err != nil {
		logger.Error("获取审计日志列表失败", zap.Error(err))
		h.InternalError(c, "获取审计日志列表失败")
		return
	}

	h.Success(c, gin.H{
		"logs":  entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetAuditLog 获取单条审计日志
func (h *AuditLogHandler) GetAuditLog(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "日志ID无效")
		return
	}

	entry, err := h.query.Get(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "日志不存在")
			return
		}
		logger.Error("获取审计日志失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "获取审计日志失败")
		return
	}

	h.Success(c, entry)
}

// ActivityStats 获取审计日志聚合统计
func (h *AuditLogHandler) ActivityStats(c *gin.Context) {
	dateFrom := parseDateParam(c, "start_date")
	dateTo := parseDateParam(c, "end_date")

	stats, err := h.query.ActivityStats(dateFrom, dateTo)
	if err != nil {
		logger.Error("获取审计日志统计失败", zap.Error(err))
		h.InternalError(c, "获取审计日志统计失败")
		return
	}

	h.Success(c, stats)
}

// AuditTrail 获取单个实体的审计轨迹
func (h *AuditLogHandler) AuditTrail(c *gin.Context) {
	targetType := c.Query("target_type")
	targetIDStr := c.Query("target_id")
	if targetType == "" || targetIDStr == "" {
		h.BadRequest(c, "必须同时指定 target_type 和 target_id")
		return
	}

	targetID, err := strconv.ParseUint(targetIDStr, 10, 32)
	if err != nil {
		h.BadRequest(c, "target_id 参数无效")
		return
	}

	entries, err := h.query.AuditTrail(targetType, uint(targetID))
	if err != nil {
		logger.Error("获取审计轨迹失败", zap.Error(err),
			zap.String("target_type", targetType),
			zap.Uint64("target_id", targetID))
		h.InternalError(c, "获取审计轨迹失败")
		return
	}

	h.Success(c, gin.H{
		"logs": entries,
	})
}
