package services_test

import (
	"testing"

	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postCategoryAliases(t *testing.T, post *models.Post) []string {
	t.Helper()

	var attached []models.Category
	require.NoError(t, database.C.Model(post).Association("Categories").Find(&attached))
	return lo.Map(attached, func(item models.Category, _ int) string {
		return item.Alias
	})
}

func TestGetCategoryOrCreateIsCaseInsensitive(t *testing.T) {
	setupTestDB(t)

	first, err := services.GetCategoryOrCreate(database.C, "Science")
	require.NoError(t, err)

	second, err := services.GetCategoryOrCreate(database.C, "SCIENCE")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "science", first.Alias)
}

func TestReconcileCategoriesExactDifference(t *testing.T) {
	setupTestDB(t)

	author := newTestAuthor(t, "reconciler")
	post := newTestPost(t, author, models.PostVisibilityPublic)

	require.NoError(t, services.ReconcileCategories(database.C, &post, []string{"a", "b"}))
	assert.ElementsMatch(t, []string{"a", "b"}, postCategoryAliases(t, &post))

	retained, err := services.GetCategory("b")
	require.NoError(t, err)

	require.NoError(t, services.ReconcileCategories(database.C, &post, []string{"b", "c"}))
	assert.ElementsMatch(t, []string{"b", "c"}, postCategoryAliases(t, &post))

	// "b" kept its identity; it was never detached and re-attached as a new row.
	after, err := services.GetCategory("b")
	require.NoError(t, err)
	assert.Equal(t, retained.ID, after.ID)
}

func TestReconcileCategoriesEmptyDesiredSet(t *testing.T) {
	setupTestDB(t)

	author := newTestAuthor(t, "cleaner")
	post := newTestPost(t, author, models.PostVisibilityPublic)

	require.NoError(t, services.ReconcileCategories(database.C, &post, []string{"a", "b"}))
	require.NoError(t, services.ReconcileCategories(database.C, &post, nil))

	assert.Empty(t, postCategoryAliases(t, &post))
}

func TestReconcileCategoriesIdenticalSet(t *testing.T) {
	setupTestDB(t)

	author := newTestAuthor(t, "steady")
	post := newTestPost(t, author, models.PostVisibilityPublic)

	require.NoError(t, services.ReconcileCategories(database.C, &post, []string{"a", "b"}))
	require.NoError(t, services.ReconcileCategories(database.C, &post, []string{"A", "B"}))

	assert.ElementsMatch(t, []string{"a", "b"}, postCategoryAliases(t, &post))

	// No duplicate category rows were minted for the case variants.
	var count int64
	require.NoError(t, database.C.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
