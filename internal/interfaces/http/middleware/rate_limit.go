// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateLimit is a fixed one-minute window per client IP, counted in Redis.
// When Redis is unavailable requests are let through.
func RateLimit(limit int, redisClient *redis.Client, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s", c.ClientIP())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, reset, err := hit(ctx, redisClient, key)
		if err != nil {
			logger.WithError(err).Warn("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(reset.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// hit counts one request and returns the window count and time to reset.
// The first hit of a window starts its expiry.
func hit(ctx context.Context, client *redis.Client, key string) (int, time.Duration, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
			return 0, 0, err
		}
		return 1, rateLimitWindow, nil
	}

	ttl, err := client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl <= 0 {
		// a key left without expiry would block the client forever
		if err := client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
			return 0, 0, err
		}
		ttl = rateLimitWindow
	}
	return int(count), ttl, nil
}
