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

// CategoryHandler 分类管理处理器
type CategoryHandler struct {
	*BaseHandler
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewCategoryHandler 创建分类管理处理器
func NewCategoryHandler(db *gorm.DB, recorder *audit.Recorder) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		recorder:    recorder,
	}
}

// List 获取分类列表
func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("获取分类列表失败", zap.Error(err))
		h.InternalError(c, "获取分类列表失败")
		return
	}

	h.Success(c, gin.H{"items": categories})
}

// Create 创建分类
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,min=1,max=50"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	var count int64
	if err := h.db.Model(&models.Category{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		logger.Error("检查分类名称失败", zap.Error(err))
		h.InternalError(c, "检查分类名称失败")
		return
	}
	if count > 0 {
		h.Error(c, utils.CodeInvalidParams, "分类已存在")
		return
	}

	category := models.Category{
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
	}
	if err := h.db.Create(&category).Error; err != nil {
		logger.Error("创建分类失败", zap.Error(err))
		h.InternalError(c, "创建分类失败")
		return
	}

	targetID := category.ID
	h.recorder.MustRecord(utils.GetUserID(c), "create_category", "category", &targetID, map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	h.Success(c, category)
}

// Update 更新分类
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "分类ID无效")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required,min=1,max=50"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "参数错误")
		return
	}

	var category models.Category
	if err := h.db.First(&category, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "分类不存在")
			return
		}
		logger.Error("查询分类失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询分类失败")
		return
	}

	oldName := category.Name
	category.Name = req.Name
	category.Slug = utils.Slugify(req.Name)
	category.Description = req.Description
	if err := h.db.Save(&category).Error; err != nil {
		logger.Error("更新分类失败", zap.Error(err), zap.Uint("category_id", category.ID))
		h.InternalError(c, "更新分类失败")
		return
	}

	targetID := category.ID
	h.recorder.MustRecord(utils.GetUserID(c), "update_category", "category", &targetID, map[string]interface{}{
		"old_name": oldName,
		"new_name": category.Name,
	})

	h.Success(c, category)
}

// Delete 删除分类，该分类下的帖子归为未分类
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.BadRequest(c, "分类ID无效")
		return
	}

	var category models.Category
	if err := h.db.First(&category, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.NotFound(c, "分类不存在")
			return
		}
		logger.Error("查询分类失败", zap.Error(err), zap.Uint64("id", id))
		h.InternalError(c, "查询分类失败")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		logger.Error("删除分类失败", zap.Error(err), zap.Uint("category_id", category.ID))
		h.InternalError(c, "删除分类失败")
		return
	}

	targetID := category.ID
	h.recorder.MustRecord(utils.GetUserID(c), "delete_category", "category", &targetID, map[string]interface{}{
		"name": category.Name,
	})

	h.Success(c, gin.H{"id": category.ID})
}
