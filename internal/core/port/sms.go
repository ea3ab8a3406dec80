package port

import "context"

// SMSGatewayPort - контракт низкоуровневого SMS-шлюза (один запрос - одно сообщение).
type SMSGatewayPort interface {
	Send(ctx context.Context, phone, message string) error
}

// SMSDispatcherPort - контракт диспетчера отложенной отправки.
// Enqueue не блокирует вызывающего: сообщения уходят в фоне с фиксированной
// паузой между ними, ошибки отдельных сообщений логируются и не ретраятся.
type SMSDispatcherPort interface {
	Enqueue(ctx context.Context, phone string, messages []string)
}
