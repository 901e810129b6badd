package services_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	localCache "github.com/quillnet/quill/pkg/internal/cache"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

const testBaseURL = "https://quill.test"

func setupTestDB(t *testing.T) {
	t.Helper()

	viper.Set("base_url", testBaseURL)
	if localCache.S == nil {
		require.NoError(t, localCache.NewStore())
	}
	// Row ids restart at 1 for every fresh database; flush anything keyed on
	// them from the previous test.
	require.NoError(t, localCache.S.Clear(context.Background()))

	dsn := fmt.Sprintf("file:quill_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(db))

	database.C = db
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
}

func newTestAuthor(t *testing.T, name string) models.Author {
	t.Helper()

	author, err := services.NewLocalAuthor(name, "test-secret-123")
	require.NoError(t, err)
	return author
}

func newTestPost(t *testing.T, author models.Author, visibility models.PostVisibilityLevel) models.Post {
	t.Helper()

	item, err := services.NewPost(author, models.Post{
		Title:       "Hello federation",
		Description: "A post for testing",
		ContentType: "text/plain",
		Content:     []byte("hello from " + author.Name),
		Visibility:  visibility,
	})
	require.NoError(t, err)
	return item
}
