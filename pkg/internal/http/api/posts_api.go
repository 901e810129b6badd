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

func listAuthorPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	author, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	tx := services.FilterPostListed(services.FilterPostWithVisibility(database.C, nil)).
		Where("author_id = ?", author.ID)
	if len(c.Query("category")) > 0 {
		tx = services.FilterPostWithCategory(tx, c.Query("category"))
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data": lo.Map(items, func(item *models.Post, _ int) map[string]any {
			return services.BuildPostPayload(*item)
		}),
	})
}

// getPost serves a post by exact id. Unlisted posts are reachable here on
// purpose; PRIVATE ones stay invisible to anyone but their author.
func getPost(c *fiber.Ctx) error {
	author, err := addressedAuthor(c)
	if err != nil {
		return err
	}

	item, err := services.GetPostByUuid(database.C.Where("author_id = ?", author.ID), c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if item.Visibility == models.PostVisibilityPrivate {
		return fiber.NewError(fiber.StatusNotFound, "record not found")
	}

	return c.JSON(services.BuildPostPayload(item))
}

func createPost(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	var data struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description"`
		ContentType string   `json:"contentType" validate:"required"`
		Content     string   `json:"content"`
		Categories  []string `json:"categories"`
		Visibility  string   `json:"visibility"`
		Unlisted    bool     `json:"unlisted"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item := models.Post{
		Title:       data.Title,
		Description: data.Description,
		ContentType: data.ContentType,
		Content:     []byte(data.Content),
		Visibility:  services.VisibilityLevel(data.Visibility),
		Unlisted:    data.Unlisted,
		Categories: lo.Map(data.Categories, func(name string, _ int) models.Category {
			return models.Category{Name: name}
		}),
	}

	item, err := services.NewPost(author, item)
	if err != nil {
		return err
	}

	services.DeliverPostToFollowers(item)

	return c.Status(fiber.StatusCreated).JSON(services.BuildPostPayload(item))
}

func editPost(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	var data struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description"`
		ContentType string   `json:"contentType" validate:"required"`
		Content     string   `json:"content"`
		Categories  []string `json:"categories"`
		Visibility  string   `json:"visibility"`
		Unlisted    bool     `json:"unlisted"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.GetPostByUuid(database.C.Where("author_id = ?", author.ID), c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	item.Title = data.Title
	item.Description = data.Description
	item.ContentType = data.ContentType
	item.Content = []byte(data.Content)
	item.Visibility = services.VisibilityLevel(data.Visibility)
	item.Unlisted = data.Unlisted

	item, err = services.EditPost(item, data.Categories)
	if err != nil {
		return err
	}

	return c.JSON(services.BuildPostPayload(item))
}

func deletePost(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	item, err := services.GetPostByUuid(database.C.Where("author_id = ?", author.ID), c.Params("postId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeletePost(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

// sharePost republishes another local author's post under the caller's
// name. Sharing something unshareable is a quiet no-op, not an error.
func sharePost(c *fiber.Ctx) error {
	sharer := c.Locals("author").(models.Author)

	var src models.Post
	if err := services.PreloadPostGeneral(database.C).
		Where("uuid = ?", c.Params("postId")).
		First(&src).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	item, shared, err := services.SharePost(sharer, src)
	if err != nil {
		return err
	}
	if !shared {
		return c.SendStatus(fiber.StatusNoContent)
	}

	services.DeliverPostToFollowers(item)

	return c.Status(fiber.StatusCreated).JSON(services.BuildPostPayload(item))
}

func likePost(c *fiber.Ctx) error {
	author := c.Locals("author").(models.Author)

	var item models.Post
	if err := database.C.Where("uuid = ?", c.Params("postId")).First(&item).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var liked bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var err error
		liked, err = services.TogglePostLike(tx, author, item)
		return err
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(lo.Ternary(liked, fiber.StatusCreated, fiber.StatusNoContent)).JSON(fiber.Map{
		"liked": liked,
		"count": services.CountPostLikes(item.ID),
	})
}
