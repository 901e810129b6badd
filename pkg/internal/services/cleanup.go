package services

import (
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup prunes rows orphaned by hard-deleted posts and
// comments so counts stay honest between sweeps.
func DoAutoDatabaseCleanup() {
	deleted := int64(0)

	for _, mdl := range []any{&models.PostLike{}, &models.Comment{}} {
		result := database.C.
			Where("post_id NOT IN (?)", database.C.Model(&models.Post{}).Select("id")).
			Delete(mdl)
		if result.Error != nil {
			log.Error().Err(result.Error).Msg("An error occurred when cleaning up database...")
			continue
		}
		deleted += result.RowsAffected
	}

	result := database.C.
		Where("comment_id NOT IN (?)", database.C.Model(&models.Comment{}).Select("id")).
		Delete(&models.CommentLike{})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when cleaning up database...")
	} else {
		deleted += result.RowsAffected
	}

	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Cleaned up orphaned rows in database.")
	}
}
