package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mercaved/marketplace/internal/events"
	"github.com/mercaved/marketplace/internal/logging"
)

// publishEvent fires a domain event without ever failing the request.
func publishEvent(c echo.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}
