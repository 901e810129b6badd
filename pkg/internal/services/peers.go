package services

import (
	"crypto/subtle"
	"net/url"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// PeerConfig is one allow-listed remote node plus the shared-secret
// credential used in both directions. Loaded once at startup; immutable
// afterwards.
type PeerConfig struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

var allowedPeers []PeerConfig

func ReadPeerConfig() {
	if err := viper.UnmarshalKey("peers", &allowedPeers); err != nil {
		log.Error().Err(err).Msg("Failed to loading peer allow-list config...")
	}
	log.Info().Int("count", len(allowedPeers)).Msg("Loaded peer allow-list config!")
}

// IsAllowedPeer checks a presented shared-secret credential against the
// allow-list.
func IsAllowedPeer(username, password string) bool {
	return lo.SomeBy(allowedPeers, func(peer PeerConfig) bool {
		nameOk := subtle.ConstantTimeCompare([]byte(peer.Username), []byte(username)) == 1
		passOk := subtle.ConstantTimeCompare([]byte(peer.Password), []byte(password)) == 1
		return nameOk && passOk
	})
}

// FindPeerForURL returns the allow-list entry whose host owns the given URL,
// or nil when the host is not a known peer.
func FindPeerForURL(raw string) *PeerConfig {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	for idx := range allowedPeers {
		peerUrl, err := url.Parse(allowedPeers[idx].URL)
		if err != nil {
			continue
		}
		if peerUrl.Host == parsed.Host {
			return &allowedPeers[idx]
		}
	}

	return nil
}
