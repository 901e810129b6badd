package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReceiveInboxObject applies one inbound federation object to the addressed
// author's state. Classification is by the lowercased "type" field; each
// handler commits its writes as a single transaction so a rejection never
// leaves a partial write behind.
func ReceiveInboxObject(owner models.Author, raw map[string]any) error {
	objectType, _ := raw["type"].(string)

	switch strings.ToLower(objectType) {
	case "post":
		return receivePost(owner, raw)
	case "follow":
		return receiveFollow(owner, raw)
	case "like":
		return receiveLike(owner, raw)
	case "comment":
		return receiveComment(owner, raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInboxObjectType, objectType)
	}
}

// Re-delivery of a known public_id refreshes the content fields as well as
// categories, so a re-POST and an origin refresh converge on the same row.
func receivePost(owner models.Author, raw map[string]any) error {
	item, err := NormalizePost(raw)
	if err != nil {
		return err
	}

	mimeType, _ := item["contentType"].(string)
	contentType, err := DecodeContentType(mimeType)
	if err != nil {
		return err
	}

	publicId := item["id"].(string)
	content, _ := item["content"].(string)
	description, _ := item["description"].(string)
	source, _ := item["source"].(string)
	origin, _ := item["origin"].(string)
	if len(origin) == 0 {
		origin = publicId
	}
	visibility, _ := item["visibility"].(string)

	var authorJson datatypes.JSONMap
	if payload, ok := item["author"].(map[string]any); ok {
		authorJson = datatypes.JSONMap(payload)
	}

	stored := EncodeContent(contentType, []byte(content))

	return database.C.Transaction(func(tx *gorm.DB) error {
		var post models.InboxPost
		err := tx.Where("owner_id = ? AND public_id = ?", owner.ID, publicId).First(&post).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		created := errors.Is(err, gorm.ErrRecordNotFound)
		if created {
			post = models.InboxPost{
				PublicID:    publicId,
				OwnerID:     owner.ID,
				PublishedAt: lo.ToPtr(parsePublishedTime(item["published"])),
			}
		}

		post.Title = item["title"].(string)
		post.Description = description
		post.ContentType = contentType
		post.Content = stored
		post.Source = source
		post.Origin = origin
		post.Visibility = VisibilityLevel(visibility)
		post.Unlisted = item["unlisted"].(bool)
		if authorJson != nil {
			post.AuthorJson = authorJson
		}
		if !IsImageContentType(contentType) && contentType != ContentTypeBase64 {
			post.Language = DetectLanguage(content)
		}

		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		log.Debug().Str("public_id", publicId).Bool("created", created).Msg("Applied an inbox post...")
		return ReconcileCategories(tx, &post, stringSlice(item["categories"]))
	})
}

func receiveFollow(owner models.Author, raw map[string]any) error {
	object, _ := raw["object"].(map[string]any)
	objectId, _ := object["id"].(string)

	addresseeId, err := ParseAuthorID(objectId)
	if err != nil {
		return err
	}
	if addresseeId != owner.ID {
		return fmt.Errorf("%w: object names author %d, inbox belongs to %d", ErrAddresseeMismatch, addresseeId, owner.ID)
	}

	actorPayload, ok := raw["actor"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: follow object carries no actor", ErrMalformedIdentifier)
	}
	summary, _ := raw["summary"].(string)

	return database.C.Transaction(func(tx *gorm.DB) error {
		actor, err := UpsertActor(tx, actorPayload)
		if err != nil {
			return err
		}
		return RecordFollowRequest(tx, actor, owner, summary)
	})
}

func receiveLike(owner models.Author, raw map[string]any) error {
	actorPayload, ok := raw["author"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: like object carries no author", ErrMalformedIdentifier)
	}
	objectUrl, _ := raw["object"].(string)

	return database.C.Transaction(func(tx *gorm.DB) error {
		actor, err := UpsertActor(tx, actorPayload)
		if err != nil {
			return err
		}

		switch ClassifyObjectType(objectUrl) {
		case ObjectKindPost:
			authorId, postUuid, err := ParsePostRef(objectUrl)
			if err != nil {
				return err
			}
			var post models.Post
			if err := tx.Where("uuid = ? AND author_id = ?", postUuid, authorId).First(&post).Error; err != nil {
				return fmt.Errorf("%w: no post at %s", ErrTargetNotFound, objectUrl)
			}
			_, err = TogglePostLike(tx, actor, post)
			return err
		case ObjectKindComment:
			_, _, commentUuid, err := ParseCommentRef(objectUrl)
			if err != nil {
				return err
			}
			var comment models.Comment
			if err := tx.Where("uuid = ?", commentUuid).First(&comment).Error; err != nil {
				return fmt.Errorf("%w: no comment at %s", ErrTargetNotFound, objectUrl)
			}
			_, err = ToggleCommentLike(tx, actor, comment)
			return err
		default:
			return fmt.Errorf("%w: cannot classify like object %s", ErrTargetNotFound, objectUrl)
		}
	})
}

func receiveComment(owner models.Author, raw map[string]any) error {
	content, _ := raw["comment"].(string)
	if len(content) == 0 {
		return ErrEmptyComment
	}

	actorPayload, ok := raw["author"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: comment object carries no author", ErrMalformedIdentifier)
	}

	objectUrl, _ := raw["object"].(string)
	contentType, ok := raw["contentType"].(string)
	if !ok {
		contentType = ContentTypeMarkdown
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		actor, err := UpsertActor(tx, actorPayload)
		if err != nil {
			return err
		}

		authorId, postUuid, err := ParsePostRef(objectUrl)
		if err != nil {
			return err
		}
		var post models.Post
		if err := tx.Where("uuid = ? AND author_id = ?", postUuid, authorId).First(&post).Error; err != nil {
			return fmt.Errorf("%w: no post at %s", ErrTargetNotFound, objectUrl)
		}

		_, err = NewComment(tx, actor, post, content, contentType)
		return err
	})
}

func stringSlice(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case []any:
		return lo.FilterMap(typed, func(item any, _ int) (string, bool) {
			name, ok := item.(string)
			return name, ok
		})
	default:
		return nil
	}
}

var publishedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// Peers disagree on date formats; try the shapes seen in the wild and fall
// back to the receipt time.
func parsePublishedTime(value any) time.Time {
	raw, ok := value.(string)
	if ok {
		for _, layout := range publishedTimeLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}

func ListInboxPosts(owner models.Author, take int, offset int) ([]models.InboxPost, error) {
	if take > 100 {
		take = 100
	}

	var items []models.InboxPost
	err := database.C.Where("owner_id = ?", owner.ID).
		Preload("Categories").
		Order("created_at DESC").
		Limit(take).Offset(offset).
		Find(&items).Error

	return items, err
}

func CountInboxPosts(owner models.Author) (int64, error) {
	var count int64
	err := database.C.Model(&models.InboxPost{}).Where("owner_id = ?", owner.ID).Count(&count).Error
	return count, err
}

// ClearInbox hard-deletes so a cleared post can be delivered again later.
func ClearInbox(owner models.Author) error {
	return database.C.Unscoped().Where("owner_id = ?", owner.ID).Delete(&models.InboxPost{}).Error
}
