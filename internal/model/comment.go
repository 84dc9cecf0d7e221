package model

import "time"

// Comment 评论，随帖子或作者级联删除
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index:idx_comment_post" json:"post_id"`
	Post     *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AuthorID uint      `gorm:"not null;index:idx_comment_author" json:"author_id"`
	Author   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"autoCreateTime;not null;<-:create" json:"created"`
}

func (Comment) TableName() string { return "comments" }

const CommentOrder = "comments.created DESC, comments.id DESC"

func (c *Comment) String() string { return preview(c.Text) }
