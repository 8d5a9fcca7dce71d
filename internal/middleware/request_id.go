package middleware

import (
	"time"

	"ArdenGolang/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const RequestIDKey = "X-Request-ID"

// NewRequestIDMiddleware keeps a caller-supplied X-Request-ID or mints a ULID.
func NewRequestIDMiddleware() fiber.Handler {
	ids := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if requestID == "" {
			var err error
			requestID, err = ids.NewULIDFromTimestamp(time.Now())
			if err != nil {
				requestID = ids.NewID()
			}
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
