package services

import (
	"fmt"

	"github.com/samber/lo"
)

// PostAdapter tries to repair a non-conformant peer's post payload. It must
// be pure and total: a payload it cannot handle yields (nil, false), never an
// error. Adapters run in registration order until one succeeds.
type PostAdapter func(raw map[string]any) (map[string]any, bool)

var postAdapters []PostAdapter

func RegisterPostAdapter(adapter PostAdapter) {
	postAdapters = append(postAdapters, adapter)
}

func init() {
	// Some peers put the canonical URL under "url" and garbage under "id".
	RegisterPostAdapter(func(raw map[string]any) (map[string]any, bool) {
		altUrl, ok := raw["url"].(string)
		if !ok || !IsValidURL(altUrl) {
			return nil, false
		}
		fixed := lo.Assign(map[string]any{}, raw)
		fixed["id"] = altUrl
		return fixed, true
	})
}

const UntitledPostPlaceholder = "(untitled)"

var recognizedVisibilities = map[string]int8{
	"PUBLIC":  0,
	"FRIEND":  1,
	"FRIENDS": 1,
	"PRIVATE": 2,
}

// NormalizePost coerces an arbitrary payload claiming to be a post into the
// canonical shape, preferring safe defaults over rejection. Only a payload
// with no usable identifier is rejected outright.
func NormalizePost(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: missing payload", ErrUnrecognizedPostFormat)
	}

	item := lo.Assign(map[string]any{}, raw)

	if id, ok := item["id"].(string); !ok || !IsValidURL(id) {
		adapted := false
		for _, adapter := range postAdapters {
			if fixed, ok := adapter(item); ok {
				item = fixed
				adapted = true
				break
			}
		}
		if !adapted {
			return nil, fmt.Errorf("%w: no usable post identifier", ErrUnrecognizedPostFormat)
		}
	}

	if visibility, ok := item["visibility"].(string); !ok {
		item["visibility"] = "PUBLIC"
	} else if _, recognized := recognizedVisibilities[visibility]; !recognized {
		item["visibility"] = "PUBLIC"
	}

	if _, ok := item["unlisted"].(bool); !ok {
		item["unlisted"] = false
	}

	if title, ok := item["title"].(string); !ok || len(title) == 0 {
		item["title"] = UntitledPostPlaceholder
	}

	return item, nil
}

func VisibilityLevel(visibility string) int8 {
	if level, ok := recognizedVisibilities[visibility]; ok {
		return level
	}
	return 0
}

// VisibilityName renders the canonical wire token. Inbound parsing also
// accepts the FRIENDS variant some peers send; outbound always emits FRIEND.
func VisibilityName(level int8) string {
	switch level {
	case 1:
		return "FRIEND"
	case 2:
		return "PRIVATE"
	default:
		return "PUBLIC"
	}
}
