package model

import "time"

// User 身份方提供的用户；内容核心只引用，不负责创建
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(254)" json:"-"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// AnonymousUser 未登录请求的哨兵
var AnonymousUser = &User{}

// IsAuthenticated 是否为已登录用户
func (u *User) IsAuthenticated() bool { return u != nil && u.ID != 0 }

func (u *User) String() string {
	if u == nil {
		return ""
	}
	return u.Username
}
