package database

import (
	"github.com/quillnet/quill/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Author{},
	&models.Category{},
	&models.Post{},
	&models.InboxPost{},
	&models.Comment{},
	&models.Follow{},
	&models.FollowRequest{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.PostLike{},
			&models.CommentLike{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
