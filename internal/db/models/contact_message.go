package models

// 留言状态
const (
	ContactMessageStatusOpen    = "open"
	ContactMessageStatusReplied = "replied"
)

// ContactMessage 联系我们留言模型
type ContactMessage struct {
	Model
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Subject string `gorm:"size:200" json:"subject"`
	Content string `gorm:"type:text;not null" json:"content"`
	Reply   string `gorm:"type:text" json:"reply"`
	Status  string `gorm:"size:20;not null;default:open" json:"status"`
}

// TableName 指定表名
func (ContactMessage) TableName() string {
	return "contact_messages"
}
