package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"
)

// Setup installs the process-wide slog handler: JSON to stdout, or a
// colored tint handler when LOG_PRETTY=1. Level comes from LOG_LEVEL.
func Setup() {
	level := levelFromEnv()
	if os.Getenv("LOG_PRETTY") == "1" {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})))
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func write(level slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	attrs := make([]any, 0, 12)
	attrs = append(attrs, "action", action)
	if c != nil {
		attrs = append(attrs, "ip", c.IP(), "method", c.Method(), "path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, "req_id", rid)
		}
	}
	if err != nil {
		attrs = append(attrs, "err", err.Error())
	}
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	slog.Log(context.Background(), level, action, attrs...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}

// Audit records a user-visible state change (login, mutation).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}

// Security records a denied or suspicious request.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
