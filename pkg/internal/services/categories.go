package services

import (
	"errors"
	"strings"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func ListCategory(take int, offset int) ([]models.Category, error) {
	var categories []models.Category
	err := database.C.Offset(offset).Limit(take).Find(&categories).Error

	return categories, err
}

func GetCategory(alias string) (models.Category, error) {
	var category models.Category
	if err := database.C.Where(models.Category{Alias: strings.ToLower(alias)}).First(&category).Error; err != nil {
		return category, err
	}
	return category, nil
}

// GetCategoryOrCreate resolves a category name case-insensitively, creating
// it when absent. Safe under concurrent calls for the same name: creation
// rides the unique index on alias and loses gracefully to a racing insert.
func GetCategoryOrCreate(tx *gorm.DB, name string) (models.Category, error) {
	alias := strings.ToLower(name)

	var category models.Category
	if err := tx.Where(models.Category{Alias: alias}).First(&category).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return category, err
		}
		category = models.Category{Alias: alias, Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
			return category, err
		}
		if category.ID == 0 {
			err = tx.Where(models.Category{Alias: alias}).First(&category).Error
			return category, err
		}
	}

	return category, nil
}

// ReconcileCategories makes the model's category set exactly match the
// desired names: missing ones are attached, stale ones detached, and a
// category present on both sides is never touched. This is the only place
// post/category links are mutated.
func ReconcileCategories(tx *gorm.DB, model any, desired []string) error {
	desiredAliases := lo.SliceToMap(desired, func(name string) (string, string) {
		return strings.ToLower(name), name
	})

	var current []models.Category
	if err := tx.Model(model).Association("Categories").Find(&current); err != nil {
		return err
	}
	currentAliases := lo.SliceToMap(current, func(item models.Category) (string, models.Category) {
		return item.Alias, item
	})

	stale := lo.Filter(current, func(item models.Category, _ int) bool {
		_, keep := desiredAliases[item.Alias]
		return !keep
	})
	if len(stale) > 0 {
		if err := tx.Model(model).Association("Categories").Delete(lo.ToSlicePtr(stale)); err != nil {
			return err
		}
	}

	for alias, name := range desiredAliases {
		if _, attached := currentAliases[alias]; attached {
			continue
		}
		category, err := GetCategoryOrCreate(tx, name)
		if err != nil {
			return err
		}
		if err := tx.Model(model).Association("Categories").Append(&category); err != nil {
			return err
		}
	}

	return nil
}
