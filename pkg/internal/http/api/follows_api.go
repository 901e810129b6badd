package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

func listFollowers(c *fiber.Ctx) error {
	author, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	items, err := services.ListFollowers(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func removeFollower(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)
	followId, _ := c.ParamsInt("followId", 0)

	followers, err := services.ListFollowers(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	for _, follow := range followers {
		if follow.ID == uint(followId) {
			if err := services.RemoveFollower(follow); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.SendStatus(fiber.StatusOK)
		}
	}

	return fiber.NewError(fiber.StatusNotFound, "no such follower")
}

func listFollowRequests(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	items, err := services.ListFollowRequests(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func acceptFollowRequest(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)
	requestId, _ := c.ParamsInt("requestId", 0)

	request, err := services.GetFollowRequest(author, uint(requestId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.AcceptFollowRequest(request); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func declineFollowRequest(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)
	requestId, _ := c.ParamsInt("requestId", 0)

	request, err := services.GetFollowRequest(author, uint(requestId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeclineFollowRequest(request); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
