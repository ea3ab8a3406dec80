package port

import (
	"context"
	"plot-service/internal/core/domain"
)

// PlotStatusEvent - событие смены статуса участка, публикуемое в брокер
// для downstream-потребителей (аналитика, back-office).
type PlotStatusEvent struct {
	SiteID    string            `json:"site_id"`
	PlotID    string            `json:"plot_id"`
	OldStatus domain.PlotStatus `json:"old_status"`
	NewStatus domain.PlotStatus `json:"new_status"`
	Actor     string            `json:"actor"`
	Timestamp string            `json:"timestamp"`
}

// EventPublisherPort - контракт публикации доменных событий.
// Публикация best-effort: ошибка логируется и не отменяет уже выполненную запись.
type EventPublisherPort interface {
	PublishStatusChanged(ctx context.Context, event PlotStatusEvent) error
}
