package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/services"
)

// lookupAuthor resolves a canonical author URL to the author document, the
// discovery handshake peers run before addressing an inbox.
func lookupAuthor(c *fiber.Ctx) error {
	resource := c.Query("resource")
	if len(resource) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "resource is required")
	}

	id, err := services.ParseAuthorID(resource)
	if err != nil {
		return err
	}

	author, err := services.GetLocalAuthor(id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(services.BuildAuthorPayload(author))
}
