package models

import (
	"time"

	"gorm.io/datatypes"
)

type PostVisibilityLevel = int8

const (
	PostVisibilityPublic = PostVisibilityLevel(iota)
	PostVisibilityFriends
	PostVisibilityPrivate
)

// Post is a post authored on this node. Source and Origin carry the share
// lineage: Origin points at the first-authored copy, Source at the immediate
// copy this one was shared from. For an original post both equal the post's
// own canonical URL.
type Post struct {
	BaseModel

	Uuid        string `json:"uuid" gorm:"uniqueIndex"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
	Language    string `json:"language"`

	Source string `json:"source"`
	Origin string `json:"origin"`

	Visibility PostVisibilityLevel `json:"visibility"`
	Unlisted   bool                `json:"unlisted"`

	PublishedAt *time.Time `json:"published_at"`

	Categories []Category `json:"categories" gorm:"many2many:post_categories"`
	Comments   []Comment  `json:"comments" gorm:"foreignKey:PostID"`
	Likes      []PostLike `json:"likes" gorm:"foreignKey:PostID"`

	AuthorID uint   `json:"author_id"`
	Author   Author `json:"author"`
}

// InboxPost is a cached copy of a post authored on another node, delivered
// to a local author's inbox. Keyed per owner by the foreign canonical URL so
// re-delivery updates in place instead of duplicating. The foreign author is
// snapshotted because their home node may be unreachable later.
type InboxPost struct {
	BaseModel

	PublicID    string `json:"public_id" gorm:"uniqueIndex:idx_inbox_posts_owner_public"`
	OwnerID     uint   `json:"owner_id" gorm:"uniqueIndex:idx_inbox_posts_owner_public"`
	Owner       Author `json:"owner"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
	Language    string `json:"language"`

	Source string `json:"source"`
	Origin string `json:"origin"`

	Visibility PostVisibilityLevel `json:"visibility"`
	Unlisted   bool                `json:"unlisted"`

	PublishedAt *time.Time `json:"published_at"`

	AuthorJson datatypes.JSONMap `json:"author_json"`

	Categories []Category `json:"categories" gorm:"many2many:inbox_post_categories"`
}
