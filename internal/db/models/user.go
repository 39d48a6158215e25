package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
type User struct {
	Model
	Username  string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	AvatarURL string `gorm:"size:255" json:"avatar_url"`
	Bio       string `gorm:"type:text" json:"bio"`
	IsAdmin   bool   `gorm:"default:false" json:"is_admin"`
	Status    bool   `gorm:"default:true" json:"status"` // false 表示已封禁
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
