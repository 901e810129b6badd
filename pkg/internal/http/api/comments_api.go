package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/http/exts"
	"github.com/quillnet/quill/pkg/internal/models"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func listComments(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	author, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	post, err := services.GetPostByUuid(database.C.Where("author_id = ?", author.ID), c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	items, err := services.ListComments(post, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": services.CountPostComments(post.ID),
		"data":  items,
	})
}

func createComment(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	var data struct {
		Comment     string `json:"comment" validate:"required"`
		ContentType string `json:"contentType"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if len(data.ContentType) == 0 {
		data.ContentType = services.ContentTypeMarkdown
	}

	post, err := services.GetPostByUuid(database.C, c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var item models.Comment
	err = database.C.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = services.NewComment(tx, author, post, data.Comment, data.ContentType)
		return err
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func likeComment(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	item, err := services.GetCommentByUuid(database.C, c.Params("commentId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var liked bool
	err = database.C.Transaction(func(tx *gorm.DB) error {
		var err error
		liked, err = services.ToggleCommentLike(tx, author, item)
		return err
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(lo.Ternary(liked, fiber.StatusCreated, fiber.StatusNoContent)).JSON(fiber.Map{
		"liked": liked,
	})
}
