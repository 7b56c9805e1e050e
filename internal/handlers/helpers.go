package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zelora/backend/internal/logging"
	"github.com/zelora/backend/internal/mykafka"
)

// publish sends a domain event best-effort. Event delivery never fails a
// request; a broker problem is logged and the response goes out as usual.
func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]interface{}) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "topic", topic, "error", err)
	}
}
