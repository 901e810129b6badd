package models

import "time"

const CommentMaxLength = 4096

type Comment struct {
	BaseModel

	Uuid        string `json:"uuid" gorm:"uniqueIndex"`
	Content     string `json:"comment"`
	ContentType string `json:"content_type"`

	PublishedAt *time.Time `json:"published_at"`

	Likes []CommentLike `json:"likes" gorm:"foreignKey:CommentID"`

	PostID   uint   `json:"post_id"`
	Post     Post   `json:"post"`
	AuthorID uint   `json:"author_id"`
	Author   Author `json:"author"`
}
