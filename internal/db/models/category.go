package models

// Category 分类模型
type Category struct {
	Model
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"size:60;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
