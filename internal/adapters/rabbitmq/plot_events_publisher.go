package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plot-service/internal/contextkeys"
	"plot-service/internal/contracts"
	"plot-service/internal/core/port"
	"plot-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PlotEventsPublisher реализует EventPublisherPort поверх RabbitMQ.
// Каждое событие перед публикацией проверяется по JSON-схеме контракта.
type PlotEventsPublisher struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewPlotEventsPublisher(producer *rabbitmq_producer.Publisher, routingKey string) (*PlotEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PlotEventsPublisher{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *PlotEventsPublisher) PublishStatusChanged(ctx context.Context, event port.PlotStatusEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "PlotEventsPublisher",
		"routing_key": a.routingKey,
		"site_id":     event.SiteID,
		"plot_id":     event.PlotID,
	})

	body, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal status event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal status event: %w", err)
	}

	// Контракт проверяем до публикации: невалидное событие не должно
	// попасть к downstream-потребителям.
	if err := contracts.ValidateEvent("PlotStatusChangedEvent", "1.0.0", body); err != nil {
		adapterLogger.Error("Status event failed contract validation", err, nil)
		return fmt.Errorf("rabbitmq adapter: event contract validation failed: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Info("Publishing plot status event", port.Fields{
		"old_status": event.OldStatus, "new_status": event.NewStatus,
	})
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish status event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish status event for plot %s: %w", event.PlotID, err)
	}

	adapterLogger.Debug("Status event published.", nil)
	return nil
}
