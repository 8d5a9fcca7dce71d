package config

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "Arden Assistant",
			BodyLimit:             64 * 1024,
			StrictRouting:         true,
			CaseSensitive:         true,
			DisableStartupMessage: true,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
			ErrorHandler: func(ctx *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				if e, ok := err.(*fiber.Error); ok {
					code = e.Code
				}
				if code >= fiber.StatusInternalServerError {
					logger.WithField("path", ctx.Path()).Errorf("Unhandled error: %v", err)
				}
				return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
			},
		})

	return app
}
