package middleware

import (
	"net/http"
	"sync"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

type rateLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     *sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
		mutex:     &sync.Mutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(key string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exist := r.bucket[key]; !exist {
		r.bucket[key] = rate.NewLimiter(r.rate, r.burstSize)
	}

	return r.bucket[key]
}

// NewRateLimiter limits authenticated callers per user and everyone else per IP.
func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	key := "ip:" + ctx.IP()
	if user, ok := ctx.Locals("user").(entity.UserLoginData); ok && user.ID != "" {
		key = "user:" + user.ID
	}

	if !m.rateLimitter.GetLimiterFrom(key).Allow() {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"limiter":    key,
		}).Warn("Too many requests")
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}
