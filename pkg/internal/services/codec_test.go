package services_test

import (
	"encoding/base64"
	"testing"

	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeContentType(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		want    string
		wantErr bool
	}{
		{"plain", "text/plain", services.ContentTypePlain, false},
		{"markdown", "text/markdown", services.ContentTypeMarkdown, false},
		{"base64", "application/base64", services.ContentTypeBase64, false},
		{"png with encoding", "image/png;base64", services.ContentTypePng, false},
		{"jpeg with encoding", "image/jpeg;base64", services.ContentTypeJpeg, false},
		{"jpeg bare", "image/jpeg", services.ContentTypeJpeg, false},
		{"mixed case subtype", "text/MARKDOWN", services.ContentTypeMarkdown, false},
		{"unsupported primary", "video/mp4", "", true},
		{"unsupported subtype", "text/html", "", true},
		{"no slash", "markdown", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.DecodeContentType(tt.mime)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, services.ErrUnsupportedMediaType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeContentImages(t *testing.T) {
	rawBytes := []byte{0x89, 0x50, 0x4e, 0x47}

	encoded := services.EncodeContent(services.ContentTypePng, rawBytes)
	decoded, err := base64.StdEncoding.DecodeString(string(encoded))
	require.NoError(t, err)
	assert.Equal(t, rawBytes, decoded)

	// Already-encoded payloads pass through untouched.
	again := services.EncodeContent(services.ContentTypePng, encoded)
	assert.Equal(t, encoded, again)
}

func TestEncodeContentTextPassthrough(t *testing.T) {
	content := []byte("plain old words")
	assert.Equal(t, content, services.EncodeContent(services.ContentTypePlain, content))
}

func TestDecodeContent(t *testing.T) {
	assert.Equal(t, "", services.DecodeContent(nil))
	assert.Equal(t, "", services.DecodeContent([]byte{}))
	assert.Equal(t, "héllo", services.DecodeContent([]byte("héllo")))
}
