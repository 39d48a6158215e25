package models

// Tag 标签模型
type Tag struct {
	Model
	Name       string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Slug       string `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	UsageCount int    `gorm:"default:0" json:"usage_count"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// PostTag 帖子与标签的关联
type PostTag struct {
	PostID uint `gorm:"primarykey" json:"post_id"`
	TagID  uint `gorm:"primarykey" json:"tag_id"`
}

// TableName 指定表名
func (PostTag) TableName() string {
	return "post_tags"
}
