package services

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// SharePost republishes someone else's local post under the sharer's name.
// The copy's source points at the immediate parent; origin propagates
// unchanged from the original, so an arbitrarily long share chain still
// names its first-authored copy. Non-shareable posts (PRIVATE) are a no-op.
func SharePost(sharer models.Author, src models.Post) (models.Post, bool, error) {
	if src.Visibility != models.PostVisibilityPublic && src.Visibility != models.PostVisibilityFriends {
		return models.Post{}, false, nil
	}

	item := models.Post{
		Uuid:        uuid.NewString(),
		Title:       src.Title,
		Description: src.Description,
		ContentType: src.ContentType,
		Content:     src.Content,
		Language:    src.Language,
		Visibility:  src.Visibility,
		Unlisted:    src.Unlisted,
		PublishedAt: lo.ToPtr(time.Now()),
		AuthorID:    sharer.ID,
		Author:      sharer,

		Source: LocalPostURL(src.AuthorID, src.Uuid),
		Origin: src.Origin,
	}

	desired := lo.Map(src.Categories, func(category models.Category, _ int) string {
		return category.Name
	})

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return ReconcileCategories(tx, &item, desired)
	})
	if err != nil {
		return item, false, err
	}

	return item, true, nil
}

var refreshClient = &http.Client{Timeout: 15 * time.Second}

// RefreshInboxPost re-fetches a cached foreign post from its origin. A 2xx
// overwrites the cached fields; 400/404/410 mean the origin disowned or
// removed it and the local copy is deleted; anything else is left for the
// next sweep. Only PUBLIC copies are ever refreshed. Re-entrant: two
// concurrent refreshes converge on the same overwrite or the same delete.
func RefreshInboxPost(post models.InboxPost) error {
	if post.Visibility != models.PostVisibilityPublic {
		return nil
	}

	resp, err := refreshClient.Get(post.Origin)
	if err != nil {
		log.Warn().Err(err).Str("origin", post.Origin).Msg("Transient failure refreshing inbox post, will retry next sweep...")
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusGone:
		// Hard delete so a later re-delivery of the same public id can
		// recreate the row under the (owner, public_id) unique index.
		log.Info().Str("origin", post.Origin).Int("status", resp.StatusCode).Msg("Origin disowned inbox post, deleting local copy...")
		return database.C.Unscoped().Delete(&post).Error
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Str("origin", post.Origin).Int("status", resp.StatusCode).Msg("Unexpected status refreshing inbox post, left unchanged...")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := jsoniter.Unmarshal(body, &raw); err != nil {
		log.Warn().Err(err).Str("origin", post.Origin).Msg("Origin returned unparseable post, left unchanged...")
		return err
	}

	item, err := NormalizePost(raw)
	if err != nil {
		return err
	}
	mimeType, _ := item["contentType"].(string)
	contentType, err := DecodeContentType(mimeType)
	if err != nil {
		return err
	}

	content, _ := item["content"].(string)
	description, _ := item["description"].(string)
	visibility, _ := item["visibility"].(string)

	return database.C.Transaction(func(tx *gorm.DB) error {
		post.Title = item["title"].(string)
		post.Description = description
		post.ContentType = contentType
		post.Content = EncodeContent(contentType, []byte(content))
		post.Visibility = VisibilityLevel(visibility)
		post.Unlisted = item["unlisted"].(bool)

		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		return ReconcileCategories(tx, &post, stringSlice(item["categories"]))
	})
}

// The refresh queue decouples refresh work from the read path: reads and the
// cron sweep enqueue ids, a fixed set of workers drains them. A full queue
// drops the trigger; the sweep will pick the post up again.
var refreshQueue = make(chan uint, 256)

func StartRefreshWorkers(count int) {
	if count <= 0 {
		count = 4
	}
	for idx := 0; idx < count; idx++ {
		go refreshWorker()
	}
	log.Info().Int("count", count).Msg("Inbox post refresh workers started.")
}

func refreshWorker() {
	for id := range refreshQueue {
		var post models.InboxPost
		if err := database.C.Where("id = ?", id).First(&post).Error; err != nil {
			continue
		}
		_ = RefreshInboxPost(post)
	}
}

func QueueInboxPostRefresh(post models.InboxPost) {
	if post.Visibility != models.PostVisibilityPublic {
		return
	}
	select {
	case refreshQueue <- post.ID:
	default:
	}
}

// RefreshAllInboxPosts is the cron sweep: every cached public foreign post
// gets re-queued for a refresh against its origin.
func RefreshAllInboxPosts() {
	var posts []models.InboxPost
	if err := database.C.
		Where("visibility = ?", models.PostVisibilityPublic).
		Find(&posts).Error; err != nil {
		log.Error().Err(err).Msg("Failed to list inbox posts for refresh sweep...")
		return
	}

	log.Debug().Int("count", len(posts)).Msg("Queueing inbox posts for refresh...")
	for _, post := range posts {
		QueueInboxPostRefresh(post)
	}
}
