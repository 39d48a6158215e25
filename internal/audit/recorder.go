package audit

import (
	"encoding/json"
	"time"

	"github.com/qtr-deagle/trendle-backend/internal/db/models"
	"github.com/qtr-deagle/trendle-backend/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder 审计日志写入器
// 每个成功的管理员变更操作调用一次，写入一条 audit_logs 记录
type Recorder struct {
	db *gorm.DB
}

// NewRecorder 创建审计日志写入器
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record 写入一条审计记录，返回记录ID
// details 为空时存储空字符串，否则序列化为JSON
func (r *Recorder) Record(adminID uint, action, targetType string, targetID *uint, details map[string]interface{}) (uint, error) {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			logger.Error("审计日志详情转JSON失败", zap.Error(err))
			data = []byte("{}") // 使用空对象作为默认值
		}
		detailsJSON = string(data)
	}

	record := &models.AuditLog{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    detailsJSON,
		CreatedAt:  time.Now(),
	}

	if err := r.db.Create(record).Error; err != nil {
		return 0, err
	}

	return record.ID, nil
}

// MustRecord 尽力写入一条审计记录
// 写入失败只记录错误日志，不影响调用方的主操作
func (r *Recorder) MustRecord(adminID uint, action, targetType string, targetID *uint, details map[string]interface{}) {
	if _, err := r.Record(adminID, action, targetType, targetID, details); err != nil {
		logger.Error("保存审计日志失败",
			zap.Error(err),
			zap.Uint("admin_id", adminID),
			zap.String("action", action),
			zap.String("target_type", targetType))
	}
}
