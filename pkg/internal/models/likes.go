package models

// Likes are unique per (author, object); delivering the same like twice
// toggles it off instead of erroring.

type PostLike struct {
	BaseModel

	AuthorID uint   `json:"author_id" gorm:"uniqueIndex:idx_post_likes_author_post"`
	Author   Author `json:"author"`
	PostID   uint   `json:"post_id" gorm:"uniqueIndex:idx_post_likes_author_post"`
	Post     Post   `json:"post"`
}

type CommentLike struct {
	BaseModel

	AuthorID  uint    `json:"author_id" gorm:"uniqueIndex:idx_comment_likes_author_comment"`
	Author    Author  `json:"author"`
	CommentID uint    `json:"comment_id" gorm:"uniqueIndex:idx_comment_likes_author_comment"`
	Comment   Comment `json:"comment"`
}
