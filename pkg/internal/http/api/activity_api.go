package api

import (
	"time"

	vocab "github.com/go-ap/activitypub"
	"github.com/gofiber/fiber/v2"
	"github.com/quillnet/quill/pkg/internal/database"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/samber/lo"
)

// listActivity renders the node's public local posts as ActivityStreams
// activities for tooling that speaks AS2 rather than this protocol's own
// vocabulary.
func listActivity(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterPostListed(services.FilterPostWithVisibility(database.C, nil))

	items, err := services.ListPost(tx, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var acts []vocab.Activity
	for _, item := range items {
		authorUrl := vocab.ID(item.Author.URL)
		postUrl := vocab.ID(services.LocalPostURL(item.AuthorID, item.Uuid))
		acts = append(acts, vocab.Activity{
			ID:   postUrl,
			Type: vocab.CreateType,
			Actor: vocab.Actor{
				ID:   authorUrl,
				Type: vocab.PersonType,
				Name: vocab.DefaultNaturalLanguageValue(item.Author.Name),
				URL:  authorUrl,
			},
			Object: vocab.Object{
				ID:   postUrl,
				Type: vocab.NoteType,
				Name: vocab.DefaultNaturalLanguageValue(item.Title),
				URL:  postUrl,
			},
			Published: lo.TernaryF(item.PublishedAt != nil, func() time.Time {
				return *item.PublishedAt
			}, func() time.Time {
				return item.CreatedAt
			}),
		})
	}

	return c.JSON(acts)
}
