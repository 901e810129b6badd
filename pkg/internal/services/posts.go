package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pemistahl/lingua-go"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func FilterPostWithVisibility(tx *gorm.DB, viewer *models.Author) *gorm.DB {
	if viewer == nil {
		return tx.Where("visibility = ?", models.PostVisibilityPublic)
	}

	return tx.Where(
		"(visibility = ? OR author_id = ? OR (visibility = ? AND author_id IN (?)))",
		models.PostVisibilityPublic,
		viewer.ID,
		models.PostVisibilityFriends,
		database.C.Model(&models.Follow{}).Select("object_id").Where("actor_id = ? AND mutual = ?", viewer.ID, true),
	)
}

// Unlisted posts stay fetchable by exact id but never appear in listings.
func FilterPostListed(tx *gorm.DB) *gorm.DB {
	return tx.Where("unlisted = ?", false)
}

func FilterPostWithCategory(tx *gorm.DB, alias string) *gorm.DB {
	return tx.Joins("JOIN post_categories ON posts.id = post_categories.post_id").
		Joins("JOIN categories ON categories.id = post_categories.category_id").
		Where("categories.alias IN ?", strings.Split(strings.ToLower(alias), ",")).
		Distinct("posts.id")
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Categories")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func GetPostByUuid(tx *gorm.DB, postUuid string) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(tx).
		Where("uuid = ?", postUuid).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func ListPost(tx *gorm.DB, take int, offset int) ([]*models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []*models.Post
	if err := PreloadPostGeneral(tx).
		Limit(take).Offset(offset).
		Order("published_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

// NewPost publishes an original local post. Source and origin both point at
// the post's own canonical URL until it gets shared.
func NewPost(author models.Author, item models.Post) (models.Post, error) {
	contentType, err := DecodeContentType(item.ContentType)
	if err != nil {
		return item, err
	}
	item.ContentType = contentType
	item.Content = EncodeContent(contentType, item.Content)

	if item.Uuid == "" {
		item.Uuid = uuid.NewString()
	}
	if item.PublishedAt == nil {
		item.PublishedAt = lo.ToPtr(time.Now())
	}
	if !IsImageContentType(contentType) && contentType != ContentTypeBase64 {
		item.Language = DetectLanguage(DecodeContent(item.Content))
	}

	item.AuthorID = author.ID
	item.Author = author

	canonical := LocalPostURL(author.ID, item.Uuid)
	item.Source = canonical
	item.Origin = canonical

	desired := lo.Map(item.Categories, func(category models.Category, _ int) string {
		return category.Name
	})
	item.Categories = nil

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return ReconcileCategories(tx, &item, desired)
	})
	if err != nil {
		return item, err
	}

	log.Debug().Str("uuid", item.Uuid).Msg("The post is posted.")
	return item, nil
}

func EditPost(item models.Post, desiredCategories []string) (models.Post, error) {
	contentType, err := DecodeContentType(item.ContentType)
	if err != nil {
		return item, err
	}
	item.ContentType = contentType
	item.Content = EncodeContent(contentType, item.Content)
	item.Categories = nil

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return ReconcileCategories(tx, &item, desiredCategories)
	})

	return item, err
}

func DeletePost(item models.Post) error {
	return database.C.Delete(&item).Error
}

func CountPostLikes(id uint) int64 {
	var count int64
	if err := database.C.Model(&models.PostLike{}).
		Where("post_id = ?", id).
		Count(&count).Error; err != nil {
		return 0
	}

	return count
}

func CountPostComments(id uint) int64 {
	var count int64
	if err := database.C.Model(&models.Comment{}).
		Where("post_id = ?", id).
		Count(&count).Error; err != nil {
		return 0
	}

	return count
}

// BuildPostPayload renders the canonical wire shape this node emits for its
// own posts; the refresh fetcher expects the same shape from peers.
func BuildPostPayload(item models.Post) map[string]any {
	canonical := LocalPostURL(item.AuthorID, item.Uuid)

	publishedAt := item.CreatedAt
	if item.PublishedAt != nil {
		publishedAt = *item.PublishedAt
	}

	return map[string]any{
		"type":        "post",
		"id":          canonical,
		"source":      item.Source,
		"origin":      item.Origin,
		"title":       item.Title,
		"description": item.Description,
		"contentType": item.ContentType,
		"content":     DecodeContent(item.Content),
		"author":      BuildAuthorPayload(item.Author),
		"categories": lo.Map(item.Categories, func(category models.Category, _ int) string {
			return category.Name
		}),
		"count":       CountPostComments(item.ID),
		"comments":    canonical + "/comments",
		"commentsSrc": nil,
		"published":   publishedAt.Format(time.RFC3339),
		"visibility":  VisibilityName(item.Visibility),
		"unlisted":    item.Unlisted,
	}
}

var languageDetector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.French,
			lingua.Spanish,
			lingua.German,
			lingua.Chinese,
			lingua.Japanese,
		).
		Build()
})

func DetectLanguage(content string) string {
	if len(content) == 0 {
		return ""
	}
	if language, ok := languageDetector().DetectLanguageOf(content); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
