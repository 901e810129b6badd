package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
)

func listAuthors(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	count, err := services.CountLocalAuthors()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListLocalAuthors(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func getAuthor(c *fiber.Ctx) error {
	author, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	return c.JSON(services.BuildAuthorPayload(author))
}

func createAuthor(c *fiber.Ctx) error {
	var data struct {
		DisplayName string `json:"display_name" validate:"required"`
		Secret      string `json:"secret" validate:"required,min=8"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	author, err := services.NewLocalAuthor(data.DisplayName, data.Secret)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(author)
}

func editAuthor(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	var data struct {
		DisplayName     string `json:"display_name" validate:"required"`
		GithubURL       string `json:"github_url"`
		ProfileImageURL string `json:"profile_image_url"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	author.Name = data.DisplayName
	author.GithubURL = data.GithubURL
	author.ProfileImageURL = data.ProfileImageURL

	author, err := services.EditLocalAuthor(author)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(author)
}
