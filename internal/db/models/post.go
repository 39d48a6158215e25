package models

// Post 帖子模型
type Post struct {
	Model
	UserID     uint   `gorm:"index;not null" json:"user_id"`
	CategoryID *uint  `gorm:"index" json:"category_id"`
	Title      string `gorm:"size:200;not null" json:"title"`
	Content    string `gorm:"type:text" json:"content"`
	LikeCount  int    `gorm:"default:0" json:"like_count"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// Comment 评论模型
type Comment struct {
	Model
	PostID  uint   `gorm:"index;not null" json:"post_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Content string `gorm:"type:text;not null" json:"content"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
