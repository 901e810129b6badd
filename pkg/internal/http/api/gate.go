package api

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

// peerGateware guards inbound federation endpoints: the sending node must
// present an allow-listed shared-secret credential over Basic auth.
func peerGateware(c *fiber.Ctx) error {
	username, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
	if !ok || !services.IsAllowedPeer(username, password) {
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="quill"`)
		return fiber.NewError(fiber.StatusUnauthorized, "peer credential required")
	}

	return c.Next()
}

// authorGateware guards endpoints that mutate a local author's state: the
// caller must hold the author's secret.
func authorGateware(c *fiber.Ctx) error {
	authorId, err := c.ParamsInt("authorId", 0)
	if err != nil || authorId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid author id")
	}

	author, err := services.GetLocalAuthor(uint(authorId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "no such author")
	}

	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if len(author.Secret) == 0 || subtle.ConstantTimeCompare([]byte(token), []byte(author.Secret)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "author credential required")
	}

	c.Locals("author", author)
	return c.Next()
}

func parseBasicAuth(header string) (string, string, bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	username, password, found := strings.Cut(string(decoded), ":")
	return username, password, found
}

// addressedAuthor loads the local author named in the path; used by
// endpoints that read rather than mutate.
func addressedAuthor(c *fiber.Ctx) (models.Author, error) {
	authorId, err := c.ParamsInt("authorId", 0)
	if err != nil || authorId <= 0 {
		return models.Author{}, fiber.NewError(fiber.StatusBadRequest, "invalid author id")
	}

	author, err := services.GetLocalAuthor(uint(authorId))
	if err != nil {
		return models.Author{}, fiber.NewError(fiber.StatusNotFound, "no such author")
	}

	return author, nil
}
