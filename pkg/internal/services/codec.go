package services

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	ContentTypePlain    = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypeBase64   = "application/base64"
	ContentTypePng      = "image/png;base64"
	ContentTypeJpeg     = "image/jpeg;base64"
)

// DecodeContentType maps a peer-supplied MIME string onto one of the
// supported canonical content types. Unsupported primary types are a hard
// rejection; they are never adapted.
func DecodeContentType(mimeType string) (string, error) {
	primary, rest, found := strings.Cut(mimeType, "/")
	if !found {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mimeType)
	}

	subtype, _, _ := strings.Cut(rest, ";")
	primary = strings.ToLower(strings.TrimSpace(primary))
	subtype = strings.ToLower(strings.TrimSpace(subtype))

	switch primary {
	case "text":
		switch subtype {
		case "plain":
			return ContentTypePlain, nil
		case "markdown":
			return ContentTypeMarkdown, nil
		}
	case "application":
		if subtype == "base64" {
			return ContentTypeBase64, nil
		}
	case "image":
		switch subtype {
		case "png":
			return ContentTypePng, nil
		case "jpeg":
			return ContentTypeJpeg, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mimeType)
}

func IsImageContentType(contentType string) bool {
	return contentType == ContentTypePng || contentType == ContentTypeJpeg
}

// EncodeContent prepares raw payload bytes for storage: image payloads are
// stored base64-encoded, everything else as-is. Already-encoded payloads are
// left untouched.
func EncodeContent(contentType string, content []byte) []byte {
	if !IsImageContentType(contentType) {
		return content
	}
	if _, err := base64.StdEncoding.DecodeString(string(content)); err == nil {
		return content
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(content)))
	base64.StdEncoding.Encode(encoded, content)
	return encoded
}

// DecodeContent is the display decode of stored bytes. Total for supported
// types; empty storage decodes to the empty string.
func DecodeContent(stored []byte) string {
	return string(stored)
}
