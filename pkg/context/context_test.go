package context_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"ArdenGolang/internal/entity"
	contextPkg "ArdenGolang/pkg/context"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID_Default(t *testing.T) {
	assert.Equal(t, "unknown", contextPkg.GetRequestID(context.Background()))
	assert.Equal(t, "abc", contextPkg.GetRequestID(contextPkg.WithRequestID(context.Background(), "abc")))
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()

	var got context.Context
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("X-Request-ID", "01JREQ")
		c.Locals("user", entity.UserLoginData{ID: "user-7"})
		got = contextPkg.FromFiberCtx(c)
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "01JREQ", contextPkg.GetRequestID(got))
	assert.Equal(t, "user-7", contextPkg.GetUserID(got))
}

func TestFromFiberCtx_HeaderFallback(t *testing.T) {
	app := fiber.New()

	var got context.Context
	app.Get("/", func(c *fiber.Ctx) error {
		got = contextPkg.FromFiberCtx(c)
		return nil
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "from-header")
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "from-header", contextPkg.GetRequestID(got))
	assert.Equal(t, "", contextPkg.GetUserID(got))
}
