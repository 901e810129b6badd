package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App) {
	api := app.Group("/api").Name("API")
	{
		api.Get("/lookup", lookupAuthor)
		api.Get("/activity", listActivity)
		api.Get("/categories", listCategories)

		authors := api.Group("/author").Name("Authors API")
		{
			authors.Get("/", listAuthors)
			authors.Post("/", createAuthor)
			authors.Get("/:authorId", getAuthor)
			authors.Post("/:authorId", authorGateware, editAuthor)

			authors.Post("/:authorId/inbox", peerGateware, postInbox)
			authors.Get("/:authorId/inbox", authorGateware, listInbox)
			authors.Delete("/:authorId/inbox", authorGateware, clearInbox)

			authors.Get("/:authorId/followers", listFollowers)
			authors.Delete("/:authorId/followers/:followId", authorGateware, removeFollower)
			authors.Get("/:authorId/requests", authorGateware, listFollowRequests)
			authors.Post("/:authorId/requests/:requestId/accept", authorGateware, acceptFollowRequest)
			authors.Post("/:authorId/requests/:requestId/decline", authorGateware, declineFollowRequest)

			authors.Get("/:authorId/posts", listAuthorPosts)
			authors.Post("/:authorId/posts", authorGateware, createPost)
			authors.Get("/:authorId/posts/:postId", getPost)
			authors.Post("/:authorId/posts/:postId", authorGateware, editPost)
			authors.Delete("/:authorId/posts/:postId", authorGateware, deletePost)
			authors.Post("/:authorId/posts/:postId/share", authorGateware, sharePost)
			authors.Post("/:authorId/posts/:postId/likes", authorGateware, likePost)

			authors.Get("/:authorId/posts/:postId/comments", listComments)
			authors.Post("/:authorId/posts/:postId/comments", authorGateware, createComment)
			authors.Post("/:authorId/posts/:postId/comments/:commentId/likes", authorGateware, likeComment)
		}
	}
}
