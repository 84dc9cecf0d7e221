package model

import (
	"fmt"
	"time"
)

// Follow 关注关系（User 关注 Author）
type Follow struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID   uint   `gorm:"not null;index:idx_follow_user;index:idx_follow_pair,unique" json:"user_id"`
	User     *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID uint   `gorm:"not null;index:idx_follow_author;index:idx_follow_pair,unique" json:"author_id"`
	Author   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (user_id, author_id)
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }

func (f *Follow) String() string {
	return fmt.Sprintf("%s follows %s", f.User, f.Author)
}
