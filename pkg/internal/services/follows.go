package services

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	localCache "github.com/quillnet/quill/pkg/internal/cache"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ListFollowers(author models.Author) ([]models.Follow, error) {
	var follows []models.Follow
	err := database.C.Where("object_id = ?", author.ID).
		Preload("Actor").
		Find(&follows).Error

	return follows, err
}

func ListFollowRequests(author models.Author) ([]models.FollowRequest, error) {
	var requests []models.FollowRequest
	err := database.C.Where("object_id = ?", author.ID).
		Preload("Actor").
		Order("created_at DESC").
		Find(&requests).Error

	return requests, err
}

func GetFollowRequest(author models.Author, id uint) (models.FollowRequest, error) {
	var request models.FollowRequest
	err := database.C.Where("id = ? AND object_id = ?", id, author.ID).
		Preload("Actor").
		First(&request).Error

	return request, err
}

// RecordFollowRequest stores a pending inbound follow ask. Duplicate
// delivery of the same ask collapses onto the (actor, object) unique index.
func RecordFollowRequest(tx *gorm.DB, actor models.Author, object models.Author, summary string) error {
	request := models.FollowRequest{
		ActorID:  actor.ID,
		ObjectID: object.ID,
		Summary:  summary,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&request).Error
}

// AcceptFollowRequest turns a pending ask into a follow edge and drops the
// request, in one transaction. Requests and edges are hard-deleted throughout
// this file: their unique indexes must be free for the same actor to ask or
// follow again later.
func AcceptFollowRequest(request models.FollowRequest) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		follow := models.Follow{
			ActorID:  request.ActorID,
			ObjectID: request.ObjectID,
			Mutual:   isFollowing(tx, request.ObjectID, request.ActorID),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
			return err
		}
		// The reverse edge's cached flag is stale now.
		tx.Model(&models.Follow{}).
			Where("actor_id = ? AND object_id = ?", request.ObjectID, request.ActorID).
			Update("mutual", true)
		return tx.Unscoped().Delete(&request).Error
	})
	if err != nil {
		return err
	}

	invalidateMutualCache(request.ActorID, request.ObjectID)
	return nil
}

func DeclineFollowRequest(request models.FollowRequest) error {
	return database.C.Unscoped().Delete(&request).Error
}

func RemoveFollower(follow models.Follow) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		tx.Model(&models.Follow{}).
			Where("actor_id = ? AND object_id = ?", follow.ObjectID, follow.ActorID).
			Update("mutual", false)
		return tx.Unscoped().Delete(&follow).Error
	})
	if err != nil {
		return err
	}

	invalidateMutualCache(follow.ActorID, follow.ObjectID)
	return nil
}

func isFollowing(tx *gorm.DB, actorId, objectId uint) bool {
	var count int64
	tx.Model(&models.Follow{}).
		Where("actor_id = ? AND object_id = ?", actorId, objectId).
		Count(&count)
	return count > 0
}

func mutualCacheKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("follow-mutual#%d:%d", a, b)
}

// IsMutualFollow reports whether both directed edges exist, through a short
// TTL cache since fan-out consults it once per follower per delivery.
func IsMutualFollow(a, b uint) bool {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	key := mutualCacheKey(a, b)
	if cached, err := marshal.Get(ctx, key, new(bool)); err == nil {
		return *(cached.(*bool))
	}

	mutual := isFollowing(database.C, a, b) && isFollowing(database.C, b, a)

	_ = marshal.Set(
		ctx,
		key,
		mutual,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"follow-mutual"}),
	)

	return mutual
}

func invalidateMutualCache(a, b uint) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), mutualCacheKey(a, b))
}
