package models

import (
	"time"
)

// AuditLog 管理员操作审计日志模型
// 只追加不修改：没有 UpdatedAt/DeletedAt，记录创建后不可变
type AuditLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	AdminID    uint      `gorm:"index;not null" json:"admin_id"`
	Action     string    `gorm:"size:50;not null" json:"action"` // ban_user, create_tag, update_report_status 等
	TargetType string    `gorm:"size:50" json:"target_type"`     // user, tag, category, report, contact_message
	TargetID   *uint     `gorm:"index" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}
