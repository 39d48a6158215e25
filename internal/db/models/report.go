package models

// 举报状态
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Report 举报模型
type Report struct {
	Model
	ReporterID uint   `gorm:"index;not null" json:"reporter_id"`
	TargetType string `gorm:"size:50;not null" json:"target_type"` // post, comment, user
	TargetID   uint   `gorm:"index;not null" json:"target_id"`
	Reason     string `gorm:"type:text;not null" json:"reason"`
	Status     string `gorm:"size:20;not null;default:pending" json:"status"`
}

// TableName 指定表名
func (Report) TableName() string {
	return "reports"
}
