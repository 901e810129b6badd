package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type ObjectKind = string

const (
	ObjectKindPost    = "posts"
	ObjectKindComment = "comments"
	ObjectKindUnknown = "unknown"
)

func IsValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && len(parsed.Host) > 0
}

// IsLocalURL reports whether the URL names an entity owned by this node,
// matching scheme and host against the configured base url exactly.
func IsLocalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	base, err := url.Parse(viper.GetString("base_url"))
	if err != nil {
		return false
	}
	return parsed.Scheme == base.Scheme && parsed.Host == base.Host
}

func pathSegments(raw string) []string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return lo.Filter(strings.Split(parsed.Path, "/"), func(item string, _ int) bool {
		return len(item) > 0
	})
}

// ParseAuthorID extracts the local author id from a canonical author URL of
// the form .../author/{id}.
func ParseAuthorID(raw string) (uint, error) {
	if !IsLocalURL(raw) {
		return 0, fmt.Errorf("%w: not a local url: %s", ErrMalformedIdentifier, raw)
	}

	segments := pathSegments(raw)
	if len(segments) < 2 || segments[len(segments)-2] != "author" {
		return 0, fmt.Errorf("%w: expected .../author/{id}, got %s", ErrMalformedIdentifier, raw)
	}

	id, err := strconv.ParseUint(segments[len(segments)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric author id in %s", ErrMalformedIdentifier, raw)
	}

	return uint(id), nil
}

// ParsePostRef extracts (author id, post uuid) from a canonical post URL of
// the form .../author/{id}/posts/{uuid}.
func ParsePostRef(raw string) (uint, string, error) {
	if !IsLocalURL(raw) {
		return 0, "", fmt.Errorf("%w: not a local url: %s", ErrMalformedIdentifier, raw)
	}

	segments := pathSegments(raw)
	if len(segments) < 4 || segments[len(segments)-2] != "posts" || segments[len(segments)-4] != "author" {
		return 0, "", fmt.Errorf("%w: expected .../author/{id}/posts/{uuid}, got %s", ErrMalformedIdentifier, raw)
	}

	id, err := strconv.ParseUint(segments[len(segments)-3], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: non-numeric author id in %s", ErrMalformedIdentifier, raw)
	}

	return uint(id), segments[len(segments)-1], nil
}

// ParseCommentRef extracts (author id, post uuid, comment uuid) from a
// canonical comment URL of the form .../author/{id}/posts/{uuid}/comments/{uuid}.
func ParseCommentRef(raw string) (uint, string, string, error) {
	segments := pathSegments(raw)
	if len(segments) < 2 || segments[len(segments)-2] != "comments" {
		return 0, "", "", fmt.Errorf("%w: expected .../comments/{uuid}, got %s", ErrMalformedIdentifier, raw)
	}

	commentId := segments[len(segments)-1]
	authorId, postId, err := ParsePostRef(strings.TrimSuffix(raw, "/comments/"+commentId))
	if err != nil {
		return 0, "", "", err
	}

	return authorId, postId, commentId, nil
}

// ClassifyObjectType decides whether a like's object URL names a post or a
// comment, by structure alone.
func ClassifyObjectType(raw string) ObjectKind {
	segments := pathSegments(raw)
	if len(segments) < 2 {
		return ObjectKindUnknown
	}
	switch segments[len(segments)-2] {
	case "comments":
		return ObjectKindComment
	case "posts":
		return ObjectKindPost
	default:
		return ObjectKindUnknown
	}
}

func LocalAuthorURL(id uint) string {
	return fmt.Sprintf("%s/api/author/%d", strings.TrimSuffix(viper.GetString("base_url"), "/"), id)
}

func LocalPostURL(authorId uint, postUuid string) string {
	return fmt.Sprintf("%s/posts/%s", LocalAuthorURL(authorId), postUuid)
}

func LocalCommentURL(authorId uint, postUuid, commentUuid string) string {
	return fmt.Sprintf("%s/comments/%s", LocalPostURL(authorId, postUuid), commentUuid)
}
