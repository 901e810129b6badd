package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetCommentByUuid(tx *gorm.DB, commentUuid string) (models.Comment, error) {
	var item models.Comment
	if err := tx.
		Preload("Author").
		Where("uuid = ?", commentUuid).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

// ListComments returns a post's comments newest first.
func ListComments(post models.Post, take int, offset int) ([]models.Comment, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Comment
	err := database.C.Where("post_id = ?", post.ID).
		Preload("Author").
		Order("created_at DESC").
		Limit(take).Offset(offset).
		Find(&items).Error

	return items, err
}

// NewComment appends a comment to a post. Comments are append-only: there is
// no update-in-place for re-delivered comments.
func NewComment(tx *gorm.DB, author models.Author, post models.Post, content, contentType string) (models.Comment, error) {
	var item models.Comment

	if len(content) == 0 {
		return item, ErrEmptyComment
	}
	if len([]rune(content)) > models.CommentMaxLength {
		content = string([]rune(content)[:models.CommentMaxLength])
	}

	kind, err := DecodeContentType(contentType)
	if err != nil {
		return item, err
	}
	if kind != ContentTypePlain && kind != ContentTypeMarkdown {
		return item, fmt.Errorf("%w: comments accept text only, got %s", ErrUnsupportedMediaType, contentType)
	}

	item = models.Comment{
		Uuid:        uuid.NewString(),
		Content:     content,
		ContentType: kind,
		PublishedAt: lo.ToPtr(time.Now()),
		PostID:      post.ID,
		AuthorID:    author.ID,
	}

	err = tx.Create(&item).Error
	return item, err
}

func DeleteComment(item models.Comment) error {
	return database.C.Delete(&item).Error
}
