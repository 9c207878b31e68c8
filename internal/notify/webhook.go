package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"nameplate/internal/domain"
)

// Notifier announces a completed export.
type Notifier interface {
	Notify(ctx context.Context, summary domain.Summary) error
}

// Webhook posts the summary as JSON. A Webhook without URL does nothing.
type Webhook struct {
	URL     string
	Timeout time.Duration
	// Secret, when set, is sent as X-Webhook-Token.
	Secret string
}

func NewWebhook(url string, timeout time.Duration, secret string) *Webhook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{URL: url, Timeout: timeout, Secret: secret}
}

func (w *Webhook) Notify(ctx context.Context, summary domain.Summary) error {
	if w == nil || w.URL == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotification, err)
	}

	timeout := w.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	a := fiber.Post(w.URL).JSON(summary).Timeout(timeout)
	if w.Secret != "" {
		a.Set("X-Webhook-Token", w.Secret)
	}
	a.Set(fiber.HeaderUserAgent, "nameplate-notifier")
	if err := a.Parse(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotification, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrNotification, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return fmt.Errorf("%w: webhook returned %d: %s", domain.ErrNotification, code, truncate(body, 200))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
