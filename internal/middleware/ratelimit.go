// Package middleware provides the request pipeline pieces shared by every
// route: logging, tracing, metrics, token parsing and rate limiting.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Rule is a named request budget: at most Limit requests per Window for
// one caller.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Budgets for the routes that create accounts, sessions or content.
var (
	SignupRule  = Rule{Name: "signup", Limit: 3, Window: 10 * time.Minute}
	LoginRule   = Rule{Name: "login", Limit: 10, Window: 5 * time.Minute}
	PostRule    = Rule{Name: "create_post", Limit: 5, Window: 5 * time.Minute}
	CommentRule = Rule{Name: "create_comment", Limit: 10, Window: time.Minute}
)

func (r Rule) key(caller string) string {
	return fmt.Sprintf("rl:%s:%s", r.Name, caller)
}

// FailPolicy decides what happens to a request when Redis cannot be asked.
type FailPolicy int

const (
	FailOpen FailPolicy = iota
	FailClosed
)

// ErrNoStore is returned by Allow when limits are enforced but no Redis
// client is configured.
var ErrNoStore = errors.New("rate limit store not configured")

// limitsEnforced reports whether APP_ENV asks for rate limiting. Local and
// load-test environments are never throttled.
func limitsEnforced() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return false
	}
	return true
}

// Allow spends one request of caller's budget under rule. When the budget is
// exhausted it also reports how long until the window resets.
func Allow(ctx context.Context, rdb *redis.Client, rule Rule, caller string) (bool, time.Duration, error) {
	if !limitsEnforced() {
		return true, 0, nil
	}
	if rdb == nil {
		return false, 0, ErrNoStore
	}

	key := rule.key(caller)
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, rule.Window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(rule.Limit) {
		return true, 0, nil
	}

	retryAfter, err := rdb.TTL(ctx, key).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = rule.Window
	}
	return false, retryAfter, nil
}

// callerID identifies the caller: the signed-in user when AuthRequired ran
// first, the client IP otherwise.
func callerID(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + c.IP()
}

// RateLimit enforces rule and lets requests through when Redis is down.
func RateLimit(rdb *redis.Client, rule Rule) fiber.Handler {
	return RateLimitWithPolicy(rdb, rule, FailOpen)
}

// RateLimitWithPolicy enforces rule, handling a Redis outage per policy.
// Refusals answer 429 with Retry-After in seconds.
func RateLimitWithPolicy(rdb *redis.Client, rule Rule, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		caller := callerID(c)

		allowed, retryAfter, err := Allow(ctx, rdb, rule, caller)
		if err != nil {
			Logger.WarnContext(ctx, "rate limit store unavailable",
				slog.String("rule", rule.Name),
				slog.Bool("fail_closed", policy == FailClosed),
				slog.String("error", err.Error()),
			)
			if policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Rate limiting is temporarily unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			Logger.InfoContext(ctx, "rate limit exceeded",
				slog.String("rule", rule.Name),
				slog.String("caller", caller),
			)
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
