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

// TagHandler 标签管理处理器
type TagHandler struct {
	*BaseHandler
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewTagHandler 创建标签管理处理器
func NewTagHandler(db *gorm.DB, recorder *audit.Recorder) *TagHandler {
	return &TagHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		recorder:    recorder,
	}
}

// List 获取标签列表，按使用次数倒序
func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("usage_count DESC").Find(&tags).Error; err != nil {
		logger.Error("获取标签列表失败", zap.Error(err))
		h.InternalError(c, "获取标签列表失败")
		return
	}

	h.Success(c, gin.H{"items": tags})
}

// Create 创建标签
func (h *TagHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	// 检查名称是否已存在
	var count int64
	if err := h.db.Model(&models.Tag{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		logger.Error("检查标签名称失败", zap.Error(err))
		h.InternalError(c, "检查标签名称失败")
		return
	}
	if count > 0 {
		h.Error(c, utils.CodeInvalidParams, "标签已存在")
		return
	}

	tag := models.Tag{
		Name: req.Name,
		Slug: utils.Slugify(req.Name),
	}
	if err := h.db.Create(&tag).Error; err != nil {
		logger.Error("创建标签失败", zap.Error(err))
		h.InternalError(c, "创建标签失败")
		return
	}

	targetID := tag.ID
	h.recorder.MustRecord(utils.GetUserID(c), "create_tag", "tag", &targetID, map[string]interface{}{
		"name": tag.Name,
		"slug": tag.Slug,
	})

	h.Success(c, tag)
}

// Update 更新标签名称，slug 同步重新生成
func (h *TagHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "标签ID无效")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	var tag models.Tag
	if err := h.db.First(&tag, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "标签不存在")
			return
		}
		logger.Error("查询标签失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询标签失败")
		return
	}

	oldName := tag.Name
	tag.Name = req.Name
	tag.Slug = utils.Slugify(req.Name)
	if err := h.db.Save(&tag).Error; err != nil {
		logger.Error("更新标签失败", zap.Error(err), zap.Uint("tag_id", tag.ID))
		h.InternalError(c, "更新标签失败")
		return
	}

	targetID := tag.ID
	h.recorder.MustRecord(utils.GetUserID(c), "update_tag", "tag", &targetID, map[string]interface{}{
		"old_name": oldName,
		"new_name": tag.Name,
	})

	h.Success(c, tag)
}

// Delete 删除标签
func (h *TagHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "标签ID无效")
		return
	}

	var tag models.Tag
	if err := h.db.First(&tag, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "标签不存在")
			return
		}
		logger.Error("查询标签失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询标签失败")
		return
	}

	// 删除标签及其帖子关联
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		logger.Error("删除标签失败", zap.Error(err), zap.Uint("tag_id", tag.ID))
		h.InternalError(c, "删除标签失败")
		return
	}

	targetID := tag.ID
	h.recorder.MustRecord(utils.GetUserID(c), "delete_tag", "tag", &targetID, map[string]interface{}{
		"name": tag.Name,
	})

	h.Success(c, gin.H{"id": tag.ID})
}

// Merge 合并两个标签
// 将来源标签的帖子关联转移到目标标签，使用次数累加，来源标签删除
func (h *TagHandler) Merge(c *gin.Context) {
	var req struct {
		SourceID uint `json:"source_id" binding:"required"`
		TargetID uint `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}
	if req.SourceID == req.TargetID {
		h.BadRequest(c, "来源标签和目标标签不能相同")
		return
	}

	var source, target models.Tag
	if err := h.db.First(&source, req.SourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "来源标签不存在")
			return
		}
		logger.Error("查询来源标签失败", zap.Error(err))
		h.InternalError(c, "查询来源标签失败")
		return
	}
	if err := h.db.First(&target, req.TargetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "目标标签不存在")
			return
		}
		logger.Error("查询目标标签失败", zap.Error(err))
		h.InternalError(c, "查询目标标签失败")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		// 目标标签已关联的帖子，删除来源标签的重复关联
		if err := tx.Where("tag_id = ? AND post_id IN (?)",
			source.ID,
			tx.Model(&models.PostTag{}).Select("post_id").Where("tag_id = ?", target.ID),
		).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}

		// 剩余关联转移到目标标签
		if err := tx.Model(&models.PostTag{}).
			Where("tag_id = ?", source.ID).
			Update("tag_id", target.ID).Error; err != nil {
			return err
		}

		// 使用次数累加
		if err := tx.Model(&models.Tag{}).
			Where("id = ?", target.ID).
			Update("usage_count", gorm.Expr("usage_count + ?", source.UsageCount)).Error; err != nil {
			return err
		}

		return tx.Delete(&source).Error
	})
	if err != nil {
		logger.Error("合并标签失败", zap.Error(err),
			zap.Uint("source_id", source.ID),
			zap.Uint("target_id", target.ID))
		h.InternalError(c, "合并标签失败")
		return
	}

	targetID := target.ID
	h.recorder.MustRecord(utils.GetUserID(c), "merge_tags", "tag", &targetID, map[string]interface{}{
		"source_id":   source.ID,
		"source_name": source.Name,
		"target_id":   target.ID,
		"target_name": target.Name,
	})

	h.Success(c, gin.H{"id": target.ID})
}
