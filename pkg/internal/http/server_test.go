package http

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	jsoniter "github.com/json-iterator/go"
	localCache "github.com/quillnet/quill/pkg/internal/cache"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serverTestCounter atomic.Int64

func setupTestServer(t *testing.T) *App {
	t.Helper()

	viper.Set("base_url", "https://quill.test")
	viper.Set("peers", []map[string]any{
		{"id": "peer-a", "url": "https://other.node", "username": "quill", "password": "hunter2"},
	})
	services.ReadPeerConfig()

	if localCache.S == nil {
		require.NoError(t, localCache.NewStore())
	}

	dsn := fmt.Sprintf("file:quill_server_test_%d?mode=memory&cache=shared", serverTestCounter.Add(1))
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

	return NewServer()
}

func peerAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("quill:hunter2"))
}

func inboxRequest(t *testing.T, authorId uint, payload map[string]any) *http.Request {
	t.Helper()

	body, err := jsoniter.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/author/%d/inbox", authorId), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestInboxRequiresPeerCredential(t *testing.T) {
	server := setupTestServer(t)
	owner, err := services.NewLocalAuthor("owner", "test-secret-123")
	require.NoError(t, err)

	payload := map[string]any{"type": "post"}

	// No credential at all.
	resp, err := server.app.Test(inboxRequest(t, owner.ID, payload))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Www-Authenticate"), "Basic")

	// Wrong password.
	req := inboxRequest(t, owner.ID, payload)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("quill:wrong")))
	resp, err = server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInboxAcceptsPostDelivery(t *testing.T) {
	server := setupTestServer(t)
	owner, err := services.NewLocalAuthor("owner", "test-secret-123")
	require.NoError(t, err)

	publicId := "https://other.node/api/author/9/posts/abc"
	payload := map[string]any{
		"type":        "post",
		"id":          publicId,
		"title":       "Across the wire",
		"contentType": "text/plain",
		"content":     "delivered over http",
		"visibility":  "PUBLIC",
		"author": map[string]any{
			"type": "author",
			"id":   "https://other.node/api/author/9",
			"url":  "https://other.node/api/author/9",
		},
	}

	req := inboxRequest(t, owner.ID, payload)
	req.Header.Set("Authorization", peerAuth())
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, database.C.Model(&models.InboxPost{}).
		Where("owner_id = ? AND public_id = ?", owner.ID, publicId).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInboxRejectionsMapToStatusCodes(t *testing.T) {
	server := setupTestServer(t)
	owner, err := services.NewLocalAuthor("owner", "test-secret-123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			"unsupported media type",
			map[string]any{
				"type":        "post",
				"id":          "https://other.node/api/author/9/posts/vid",
				"contentType": "video/mp4",
				"content":     "x",
			},
			http.StatusBadRequest,
		},
		{
			"unknown object type",
			map[string]any{"type": "poke"},
			http.StatusBadRequest,
		},
		{
			"like on missing target",
			map[string]any{
				"type": "like",
				"author": map[string]any{
					"id":  "https://other.node/api/author/9",
					"url": "https://other.node/api/author/9",
				},
				"object": services.LocalPostURL(owner.ID, "no-such-post"),
			},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := inboxRequest(t, owner.ID, tt.payload)
			req.Header.Set("Authorization", peerAuth())
			resp, err := server.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.NotEmpty(t, body["error"], "rejections carry a machine-readable reason")
		})
	}
}

func TestInboxUnknownAddressee(t *testing.T) {
	server := setupTestServer(t)

	req := inboxRequest(t, 4242, map[string]any{"type": "post"})
	req.Header.Set("Authorization", peerAuth())
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInboxReadRequiresAuthorToken(t *testing.T) {
	server := setupTestServer(t)
	owner, err := services.NewLocalAuthor("owner", "test-secret-123")
	require.NoError(t, err)

	url := fmt.Sprintf("/api/author/%d/inbox", owner.ID)

	resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer test-secret-123")
	resp, err = server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 0, body["count"])
}
