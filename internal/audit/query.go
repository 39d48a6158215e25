package audit

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ListFilters 审计日志列表的筛选条件，所有条件可选，同时生效时取交集
type ListFilters struct {
	AdminID    *uint
	Action     string
	TargetType string
	DateFrom   *time.Time // 按日期筛选，含当天
	DateTo     *time.Time // 按日期筛选，含当天
}

// LogEntry 审计日志查询结果，附带操作管理员的用户信息
type LogEntry struct {
	ID         uint        `gorm:"column:id" json:"id"`
	AdminID    uint        `gorm:"column:admin_id" json:"admin_id"`
	Action     string      `gorm:"column:action" json:"action"`
	TargetType string      `gorm:"column:target_type" json:"target_type"`
	TargetID   *uint       `gorm:"column:target_id" json:"target_id"`
	DetailsRaw string      `gorm:"column:details" json:"-"`
	Details    interface{} `gorm:"-" json:"details"`
	CreatedAt  time.Time   `gorm:"column:created_at" json:"created_at"`
	Username   string      `gorm:"column:username" json:"username"`
	AvatarURL  string      `gorm:"column:avatar_url" json:"avatar_url"`
}

// AdminActivity 单个管理员的操作计数
type AdminActivity struct {
	AdminID  uint   `gorm:"column:admin_id" json:"admin_id"`
	Username string `gorm:"column:username" json:"username"`
	Count    int64  `gorm:"column:count" json:"count"`
}

// Stats 审计日志聚合统计
type Stats struct {
	TotalCount   int64            `json:"total_count"`
	ByAction     map[string]int64 `json:"by_action"`
	ByTargetType map[string]int64 `json:"by_target_type"`
	TopAdmins    []AdminActivity  `json:"top_admins"`
}

// QueryService 审计日志查询服务
type QueryService struct {
	db *gorm.DB
}

// NewQueryService 创建审计日志查询服务
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// applyFilters 在查询上应用筛选条件
func applyFilters(query *gorm.DB, f ListFilters) *gorm.DB {
	if f.AdminID != nil {
		query = query.Where("audit_logs.admin_id = ?", *f.AdminID)
	}
	if f.Action != "" {
		query = query.Where("audit_logs.action = ?", f.Action)
	}
	if f.TargetType != "" {
		query = query.Where("audit_logs.target_type = ?", f.TargetType)
	}
	if f.DateFrom != nil {
		query = query.Where("audit_logs.created_at >= ?", f.DateFrom.Truncate(24*time.Hour))
	}
	if f.DateTo != nil {
		// 含当天：上界取次日零点
		query = query.Where("audit_logs.created_at < ?", f.DateTo.Truncate(24*time.Hour).Add(24*time.Hour))
	}
	return query
}

// joined 带管理员用户信息的基础查询
func (s *QueryService) joined() *gorm.DB {
	return s.db.Table("audit_logs").
		Select("audit_logs.id, audit_logs.admin_id, audit_logs.action, audit_logs.target_type, audit_logs.target_id, audit_logs.details, audit_logs.created_at, users.username, users.avatar_url").
		Joins("LEFT JOIN users ON users.id = audit_logs.admin_id")
}

// List 按条件分页查询审计日志
// 按创建时间倒序，同一时间按ID倒序；total 为分页前的总数
func (s *QueryService) List(f ListFilters, page, pageSize int) ([]LogEntry, int64, error) {
	var total int64
	countQuery := applyFilters(s.db.Table("audit_logs"), f)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := applyFilters(s.joined(), f).
		Order("audit_logs.created_at DESC, audit_logs.id DESC").
		Offset(offset).
		Limit(pageSize)

	var entries []LogEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	for i := range entries {
		entries[i].decodeDetails()
	}

	return entries, total, nil
}

// Get 按ID查询单条审计日志
func (s *QueryService) Get(id uint) (*LogEntry, error) {
	var entry LogEntry
	if err := s.joined().Where("audit_logs.id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	entry.decodeDetails()
	return &entry, nil
}

// AuditTrail 查询某个实体的完整审计轨迹，按创建时间倒序，不分页
func (s *QueryService) AuditTrail(targetType string, targetID uint) ([]LogEntry, error) {
	var entries []LogEntry
	err := s.joined().
		Where("audit_logs.target_type = ? AND audit_logs.target_id = ?", targetType, targetID).
		Order("audit_logs.created_at DESC, audit_logs.id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].decodeDetails()
	}

	return entries, nil
}

// ActivityStats 按可选日期范围聚合统计审计日志
func (s *QueryService) ActivityStats(dateFrom, dateTo *time.Time) (*Stats, error) {
	f := ListFilters{DateFrom: dateFrom, DateTo: dateTo}
	stats := &Stats{
		ByAction:     make(map[string]int64),
		ByTargetType: make(map[string]int64),
	}

	if err := applyFilters(s.db.Table("audit_logs"), f).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}

	type groupCount struct {
		Key   string `gorm:"column:key"`
		Count int64  `gorm:"column:count"`
	}

	var byAction []groupCount
	err := applyFilters(s.db.Table("audit_logs"), f).
		Select("audit_logs.action AS key, COUNT(*) AS count").
		Group("audit_logs.action").
		Scan(&byAction).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byAction {
		stats.ByAction[row.Key] = row.Count
	}

	var byTargetType []groupCount
	err = applyFilters(s.db.Table("audit_logs"), f).
		Select("audit_logs.target_type AS key, COUNT(*) AS count").
		Group("audit_logs.target_type").
		Scan(&byTargetType).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byTargetType {
		stats.ByTargetType[row.Key] = row.Count
	}

	// 操作次数最多的10个管理员，次数相同的顺序由数据库决定
	err = applyFilters(s.db.Table("audit_logs"), f).
		Select("audit_logs.admin_id, users.username, COUNT(*) AS count").
		Joins("LEFT JOIN users ON users.id = audit_logs.admin_id").
		Group("audit_logs.admin_id, users.username").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopAdmins).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// decodeDetails 解析存储的详情JSON
// 解析失败时保留原始文本返回，不报错
func (e *LogEntry) decodeDetails() {
	if e.DetailsRaw == "" {
		e.Details = nil
		return
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(e.DetailsRaw), &parsed); err != nil {
		e.Details = e.DetailsRaw
		return
	}
	e.Details = parsed
}
