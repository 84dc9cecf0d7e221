package model

import (
	"fmt"
	"time"
)

// Post 帖子，默认按 pub_date 倒序
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;not null;index:idx_post_pub_date;<-:create" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index:idx_post_author" json:"author_id"`
	Author   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	// 删除 group 时置空，帖子保留
	GroupID   *uint     `gorm:"index:idx_post_group" json:"group_id"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Image     string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	ImageURL  string    `gorm:"-" json:"image_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PostOrder 默认排序；同一时刻发布的按 id 倒序
const PostOrder = "posts.pub_date DESC, posts.id DESC"

func (p *Post) String() string { return preview(p.Text) }

func preview(text string) string {
	r := []rune(text)
	if len(r) > 15 {
		r = r[:15]
	}
	return fmt.Sprintf("%s...", string(r))
}
