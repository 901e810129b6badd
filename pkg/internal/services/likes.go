package services

import (
	"errors"

	"github.com/quillnet/quill/pkg/internal/models"
	"gorm.io/gorm"
)

// TogglePostLike creates a like, or deletes it when the (author, post) pair
// already holds one. Returns whether a like exists afterwards. The check and
// the write share one transaction; the unique index settles races. Deletes
// are hard deletes: a soft-deleted row would keep the index slot occupied and
// block the next toggle-on.
func TogglePostLike(tx *gorm.DB, author models.Author, post models.Post) (bool, error) {
	like := models.PostLike{
		AuthorID: author.ID,
		PostID:   post.ID,
	}

	if err := tx.Where(like).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, tx.Create(&like).Error
		}
		return false, err
	}

	return false, tx.Unscoped().Delete(&like).Error
}

func ToggleCommentLike(tx *gorm.DB, author models.Author, comment models.Comment) (bool, error) {
	like := models.CommentLike{
		AuthorID:  author.ID,
		CommentID: comment.ID,
	}

	if err := tx.Where(like).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, tx.Create(&like).Error
		}
		return false, err
	}

	return false, tx.Unscoped().Delete(&like).Error
}
