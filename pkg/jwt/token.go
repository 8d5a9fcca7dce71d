package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ArdenGolang/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken   = errors.New("empty Authorization header")
	ErrMalformedToken = errors.New("invalid Authorization format")
	ErrSecretNotSet   = errors.New("JWT secret not configured")
	ErrMissingClaims  = errors.New("token claims are missing required fields")
)

// Sign issues an HS256 token carrying data plus exp. Tokens are normally
// minted by the account service; this is used by tooling and tests.
func Sign(data map[string]interface{}, expiredAfter time.Duration, secretEnvKey string) (string, int64, error) {
	expiredAt := time.Now().Add(expiredAfter).Unix()

	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return "", 0, ErrSecretNotSet
	}

	claims := jwt.MapClaims{}
	for k, v := range data {
		claims[k] = v
	}
	claims["exp"] = expiredAt

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, ErrMissingToken
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		return nil, ErrMalformedToken
	}

	return Verify(accessToken, secretEnvKey)
}

func Verify(accessToken, secretEnvKey string) (*jwt.Token, error) {
	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, ErrSecretNotSet
	}

	return jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
}

// UserFromToken reads the login identity out of verified claims.
func UserFromToken(token *jwt.Token) (entity.UserLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, ErrMissingClaims
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)
	if id == "" {
		return entity.UserLoginData{}, ErrMissingClaims
	}

	return entity.UserLoginData{
		ID:       id,
		Email:    email,
		Username: username,
	}, nil
}

func GetUserLoginData(c *fiber.Ctx) (entity.UserLoginData, error) {
	user, ok := c.Locals("user").(entity.UserLoginData)
	if !ok {
		return entity.UserLoginData{}, fiber.ErrUnauthorized
	}

	return user, nil
}
