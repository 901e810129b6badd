package services_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foreignFollower(t *testing.T, object models.Author, url string) models.Follow {
	t.Helper()

	actor := models.Author{URL: url, Name: "remote", IsForeign: true}
	require.NoError(t, database.C.Create(&actor).Error)

	follow := models.Follow{ActorID: actor.ID, ObjectID: object.ID}
	require.NoError(t, database.C.Create(&follow).Error)
	return follow
}

func TestDeliverPostToFollowers(t *testing.T) {
	setupTestDB(t)

	var delivered atomic.Int64
	var lastUser, lastPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "post", raw["type"])

		lastUser, _, _ = r.BasicAuth()
		lastPath = r.URL.Path
		delivered.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	viper.Set("peers", []map[string]any{
		{"id": "peer-a", "url": server.URL, "username": "quill", "password": "hunter2"},
	})
	services.ReadPeerConfig()

	alice := newTestAuthor(t, "alice")
	foreignFollower(t, alice, server.URL+"/api/author/5")

	post := newTestPost(t, alice, models.PostVisibilityPublic)
	post.Author = alice
	services.DeliverPostToFollowers(post)

	assert.EqualValues(t, 1, delivered.Load())
	assert.Equal(t, "quill", lastUser, "delivery must carry the allow-listed credential")
	assert.Equal(t, "/api/author/5/inbox", lastPath)
}

func TestDeliverPostSkipsPrivate(t *testing.T) {
	setupTestDB(t)

	var delivered atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered.Add(1)
	}))
	defer server.Close()

	alice := newTestAuthor(t, "alice")
	foreignFollower(t, alice, server.URL+"/api/author/5")

	post := newTestPost(t, alice, models.PostVisibilityPrivate)
	post.Author = alice
	services.DeliverPostToFollowers(post)

	assert.EqualValues(t, 0, delivered.Load())
}

func TestDeliverFriendsPostSkipsOneWayFollower(t *testing.T) {
	setupTestDB(t)

	var delivered atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered.Add(1)
	}))
	defer server.Close()

	alice := newTestAuthor(t, "alice")
	foreignFollower(t, alice, server.URL+"/api/author/5")

	post := newTestPost(t, alice, models.PostVisibilityFriends)
	post.Author = alice
	services.DeliverPostToFollowers(post)

	assert.EqualValues(t, 0, delivered.Load())
}

func TestDeliverFriendsPostReachesMutuals(t *testing.T) {
	setupTestDB(t)

	var delivered atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered.Add(1)
	}))
	defer server.Close()

	viper.Set("peers", []map[string]any{
		{"id": "peer-a", "url": server.URL, "username": "quill", "password": "hunter2"},
	})
	services.ReadPeerConfig()

	alice := newTestAuthor(t, "alice")
	follow := foreignFollower(t, alice, server.URL+"/api/author/5")
	reverse := models.Follow{ActorID: alice.ID, ObjectID: follow.ActorID, Mutual: true}
	require.NoError(t, database.C.Create(&reverse).Error)

	post := newTestPost(t, alice, models.PostVisibilityFriends)
	post.Author = alice
	services.DeliverPostToFollowers(post)

	assert.EqualValues(t, 1, delivered.Load())
}

func TestIsAllowedPeer(t *testing.T) {
	viper.Set("peers", []map[string]any{
		{"id": "peer-a", "url": "https://other.node", "username": "quill", "password": "hunter2"},
	})
	services.ReadPeerConfig()

	assert.True(t, services.IsAllowedPeer("quill", "hunter2"))
	assert.False(t, services.IsAllowedPeer("quill", "wrong"))
	assert.False(t, services.IsAllowedPeer("stranger", "hunter2"))

	peer := services.FindPeerForURL("https://other.node/api/author/5")
	require.NotNil(t, peer)
	assert.Equal(t, "peer-a", peer.ID)

	assert.Nil(t, services.FindPeerForURL("https://unknown.node/api/author/5"))
}
