package services

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func fanoutClient() *http.Client {
	timeout := viper.GetDuration("fanout.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// DeliverPostToFollowers pushes a freshly published local post to the inbox
// of every permitted follower. Point-to-point and best-effort: a dead peer
// costs one timeout and a log line, never the local publish. FRIENDS posts
// go to mutual followers only; PRIVATE posts never leave the node.
func DeliverPostToFollowers(post models.Post) {
	if post.Visibility == models.PostVisibilityPrivate {
		return
	}

	followers, err := ListFollowers(post.Author)
	if err != nil {
		log.Error().Err(err).Uint("post", post.ID).Msg("Failed to list followers for delivery...")
		return
	}

	payload, err := jsoniter.Marshal(BuildPostPayload(post))
	if err != nil {
		log.Error().Err(err).Uint("post", post.ID).Msg("Failed to encode post for delivery...")
		return
	}

	client := fanoutClient()
	for _, follow := range followers {
		if !follow.Actor.IsForeign {
			continue
		}
		if post.Visibility == models.PostVisibilityFriends && !IsMutualFollow(follow.ActorID, post.AuthorID) {
			continue
		}

		if err := deliverToInbox(client, follow.Actor.URL, payload); err != nil {
			log.Warn().Err(err).Str("follower", follow.Actor.URL).Msg("Failed to deliver post to follower, dropped...")
		}
	}
}

func deliverToInbox(client *http.Client, authorUrl string, payload []byte) error {
	inboxUrl := strings.TrimSuffix(authorUrl, "/") + "/inbox"

	req, err := http.NewRequest(http.MethodPost, inboxUrl, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if peer := FindPeerForURL(authorUrl); peer != nil {
		req.SetBasicAuth(peer.Username, peer.Password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &DeliveryError{URL: inboxUrl, Status: resp.StatusCode}
	}

	log.Debug().Str("inbox", inboxUrl).Msg("Delivered post to follower inbox...")
	return nil
}

type DeliveryError struct {
	URL    string
	Status int
}

func (e *DeliveryError) Error() string {
	return "inbox delivery to " + e.URL + " rejected with status " + http.StatusText(e.Status)
}
