package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/flat-service/internal/config"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// LoginThrottle bounds login attempts per client IP within a fixed window
// using a Redis counter. When Redis is unreachable the throttle fails open
// so an infra outage cannot lock users out.
func LoginThrottle(cfg config.ThrottleConfig, rdb *redis.Client, logger *zap.Logger) fiber.Handler {
	if !cfg.Enabled || rdb == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("throttle:login:%s", c.IP())
		ctx := c.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("login throttle unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			_ = rdb.Expire(ctx, key, window).Err()
		}
		if count > int64(cfg.MaxAttempts) {
			return apperrors.NewDomainError("RATE_LIMITED", "too many login attempts, try again later",
				http.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
