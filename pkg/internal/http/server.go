package http

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	pkg "github.com/quillnet/quill/pkg/internal"
	"github.com/quillnet/quill/pkg/internal/http/api"
	"github.com/quillnet/quill/pkg/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type App struct {
	app *fiber.App
}

func NewServer() *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "Quill",
		AppName:               "Quill v" + pkg.AppVersion,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	api.MapAPIs(app)

	return &App{app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting http server.")
	}
}

// errorHandler turns the service error taxonomy into wire responses: input
// rejections surface as 400 with the offending detail, anything unexpected as
// a generic 500 logged with full context and never echoed to the peer. 404 is
// reserved for a missing addressed author and is issued by the route gates.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	switch {
	case errors.Is(err, services.ErrMalformedIdentifier),
		errors.Is(err, services.ErrUnrecognizedPostFormat),
		errors.Is(err, services.ErrUnsupportedMediaType),
		errors.Is(err, services.ErrAddresseeMismatch),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrUnknownInboxObjectType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   unwrapSentinel(err).Error(),
			"details": err.Error(),
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record not found",
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("An unexpected error occurred when processing request...")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal failure",
	})
}

func unwrapSentinel(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}
