package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/services"
)

func listCategories(c *fiber.Ctx) error {
	take := c.QueryInt("take", 100)
	offset := c.QueryInt("offset", 0)

	items, err := services.ListCategory(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(items)
}
