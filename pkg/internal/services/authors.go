package services

import (
	"errors"
	"fmt"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetAuthor(id uint) (models.Author, error) {
	var author models.Author
	if err := database.C.Where("id = ?", id).First(&author).Error; err != nil {
		return author, err
	}
	return author, nil
}

func GetLocalAuthor(id uint) (models.Author, error) {
	var author models.Author
	if err := database.C.Where("id = ? AND is_foreign = ?", id, false).First(&author).Error; err != nil {
		return author, err
	}
	return author, nil
}

func ListLocalAuthors(take int, offset int) ([]models.Author, error) {
	var authors []models.Author
	err := database.C.Where("is_foreign = ?", false).
		Offset(offset).Limit(take).
		Order("created_at ASC").
		Find(&authors).Error

	return authors, err
}

func CountLocalAuthors() (int64, error) {
	var count int64
	err := database.C.Model(&models.Author{}).Where("is_foreign = ?", false).Count(&count).Error
	return count, err
}

// NewLocalAuthor creates a local account; the canonical URL is recomputed
// deterministically from the row id once it is known.
func NewLocalAuthor(name, secret string) (models.Author, error) {
	author := models.Author{
		Name:   name,
		Secret: secret,
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&author).Error; err != nil {
			return err
		}
		author.URL = LocalAuthorURL(author.ID)
		return tx.Save(&author).Error
	})

	return author, err
}

func EditLocalAuthor(author models.Author) (models.Author, error) {
	// The canonical URL is derived from the id, never taken from input.
	author.URL = LocalAuthorURL(author.ID)
	err := database.C.Save(&author).Error
	return author, err
}

// GetOrCreateForeignAuthor looks a foreign author up by canonical URL,
// creating a minimal stub when absent. Race-safe: a concurrent create for
// the same URL collapses onto the unique index and the winner's row is
// re-read.
func GetOrCreateForeignAuthor(tx *gorm.DB, url string) (models.Author, error) {
	if !IsValidURL(url) {
		return models.Author{}, fmt.Errorf("%w: foreign author url %q", ErrMalformedIdentifier, url)
	}

	var author models.Author
	if err := tx.Where(models.Author{URL: url}).First(&author).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return author, err
		}
		author = models.Author{URL: url, IsForeign: true}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&author).Error; err != nil {
			return author, err
		}
		if author.ID == 0 {
			err = tx.Where(models.Author{URL: url}).First(&author).Error
			return author, err
		}
	}

	return author, nil
}

// UpdateForeignAuthorFields refreshes the mutable fields of a cached foreign
// author from an inbound payload. The URL is its identity and is never
// overwritten.
func UpdateForeignAuthorFields(tx *gorm.DB, author *models.Author, payload map[string]any) error {
	if name, ok := payload["displayName"].(string); ok && len(name) > 0 {
		author.Name = name
	}
	if github, ok := payload["github"].(string); ok && len(github) > 0 {
		author.GithubURL = github
	}
	if image, ok := payload["profileImage"].(string); ok && len(image) > 0 {
		author.ProfileImageURL = image
	}

	return tx.Save(author).Error
}

// UpsertActor resolves the acting author of an inbound object: foreign
// actors are get-or-created by URL with a field refresh, local actors are
// dereferenced directly.
func UpsertActor(tx *gorm.DB, payload map[string]any) (models.Author, error) {
	url, ok := payload["url"].(string)
	if !ok || !IsValidURL(url) {
		url, ok = payload["id"].(string)
		if !ok || !IsValidURL(url) {
			return models.Author{}, fmt.Errorf("%w: actor has no usable url", ErrMalformedIdentifier)
		}
	}

	if IsLocalURL(url) {
		id, err := ParseAuthorID(url)
		if err != nil {
			return models.Author{}, err
		}
		var author models.Author
		err = tx.Where("id = ?", id).First(&author).Error
		return author, err
	}

	author, err := GetOrCreateForeignAuthor(tx, url)
	if err != nil {
		return author, err
	}
	if err := UpdateForeignAuthorFields(tx, &author, payload); err != nil {
		return author, err
	}

	return author, nil
}

func BuildAuthorPayload(author models.Author) map[string]any {
	return map[string]any{
		"type":         "author",
		"id":           author.URL,
		"url":          author.URL,
		"host":         viper.GetString("base_url"),
		"displayName":  author.Name,
		"github":       author.GithubURL,
		"profileImage": author.ProfileImageURL,
	}
}
