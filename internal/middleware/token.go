package middleware

import (
	jwtPkg "ArdenGolang/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
)

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return unauthorized(ctx)
	}

	user, err := jwtPkg.UserFromToken(token)
	if err != nil {
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token claims check")
		return unauthorized(ctx)
	}
	ctx.Locals("user", user)

	fields["user_id"] = user.ID
	m.log.WithFields(fields).Debug("Authentication successful")
	return ctx.Next()
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
	})
}
