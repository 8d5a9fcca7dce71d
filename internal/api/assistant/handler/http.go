package assistantHandler

import (
	assistantService "ArdenGolang/internal/api/assistant/service"
	"ArdenGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	assistantService assistantService.IAssistantService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as assistantService.IAssistantService,
) *AssistantHandler {
	return &AssistantHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		assistantService: as,
	}
}

func (h *AssistantHandler) Start(srv fiber.Router) {
	assistant := srv.Group("/assistant")

	assistant.Use(h.middleware.NewTokenMiddleware)
	assistant.Use(h.middleware.NewRateLimiter)

	assistant.Post("/input", h.SubmitInput)
	assistant.Post("/confirm", h.ConfirmPending)
	assistant.Post("/cancel", h.CancelPending)
	assistant.Post("/stop", h.Stop)

	assistant.Get("/transcript", h.GetTranscript)
	assistant.Delete("/transcript", h.ClearTranscript)
	assistant.Get("/pending", h.GetPending)

	assistant.Get("/history", h.GetHistory)
	assistant.Delete("/history", h.ClearHistory)

	assistant.Use("/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	assistant.Get("/stream", websocket.New(h.Stream))
}
