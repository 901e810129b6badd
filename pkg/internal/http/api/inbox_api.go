package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

// postInbox is the federation entry point: another node pushes a post,
// follow, like or comment object at a local author.
func postInbox(c *fiber.Ctx) error {
	owner, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := services.ReceiveInboxObject(owner, raw); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusOK)
}

func listInbox(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	owner := c.Locals("author").(models.Author)

	count, err := services.CountInboxPosts(owner)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListInboxPosts(owner, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Reads never wait on origin round-trips; refreshes happen out of band.
	for _, item := range items {
		services.QueueInboxPostRefresh(item)
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func clearInbox(c *fiber.Ctx) error {
	owner := c.Locals("author").(models.Author)

	if err := services.ClearInbox(owner); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
