package notifier

import (
	"context"
	"time"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/port"
)

// smsJob - одна серия сообщений для одного номера.
// Контекст запроса к этому моменту уже завершен, поэтому серия несет
// собственный фоновый контекст, в который перенесены логгер и trace_id.
type smsJob struct {
	ctx      context.Context
	phone    string
	messages []string
}

// SMSDispatcher - фоновая отправка серий SMS с фиксированной паузой
// между сообщениями. Ошибки отдельных сообщений логируются и не ретраятся:
// отправка best-effort по контракту SMSDispatcherPort.
type SMSDispatcher struct {
	gateway port.SMSGatewayPort
	delay   time.Duration

	jobs   chan smsJob
	done   chan struct{}
	logger port.LoggerPort
}

// NewSMSDispatcher создает диспетчер и запускает горутину-обработчик.
func NewSMSDispatcher(gateway port.SMSGatewayPort, delay time.Duration, queueSize int, baseLogger port.LoggerPort) *SMSDispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}

	d := &SMSDispatcher{
		gateway: gateway,
		delay:   delay,
		jobs:    make(chan smsJob, queueSize),
		done:    make(chan struct{}),
		logger:  baseLogger.WithFields(port.Fields{"component": "SMSDispatcher"}),
	}

	go d.dispatcher()

	return d
}

// Enqueue ставит серию в очередь, не блокируя вызывающего.
// При переполненной очереди серия отбрасывается с предупреждением.
func (d *SMSDispatcher) Enqueue(ctx context.Context, phone string, messages []string) {
	if len(messages) == 0 {
		return
	}

	// Переносим логгер и trace_id в фоновый контекст: контекст HTTP-запроса
	// будет отменен сразу после ответа, а серия должна его пережить.
	jobCtx := contextkeys.ContextWithLogger(context.Background(), contextkeys.LoggerFromContext(ctx))
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		jobCtx = contextkeys.ContextWithTraceID(jobCtx, traceID)
	}

	select {
	case d.jobs <- smsJob{ctx: jobCtx, phone: phone, messages: messages}:
		d.logger.Debug("SMS series enqueued.", port.Fields{"phone": phone, "messages": len(messages)})
	default:
		d.logger.Warn("SMS queue is full, dropping series.", port.Fields{"phone": phone, "messages": len(messages)})
	}
}

// dispatcher обрабатывает очередь последовательно: серии не перемешиваются.
func (d *SMSDispatcher) dispatcher() {
	d.logger.Debug("SMS dispatcher started.", nil)
	for job := range d.jobs {
		jobLogger := contextkeys.LoggerFromContext(job.ctx).WithFields(port.Fields{
			"component": "SMSDispatcher",
			"phone":     job.phone,
		})

		for i, message := range job.messages {
			if i > 0 {
				time.Sleep(d.delay)
			}

			if err := d.gateway.Send(job.ctx, job.phone, message); err != nil {
				// Ошибка одного сообщения не прерывает остаток серии.
				jobLogger.Error("Failed to send SMS message", err, port.Fields{"message_index": i})
				continue
			}
			jobLogger.Debug("SMS message sent.", port.Fields{"message_index": i})
		}
	}
	close(d.done)
}

// Close останавливает диспетчер после дообработки уже поставленных серий.
func (d *SMSDispatcher) Close() error {
	close(d.jobs)
	<-d.done
	d.logger.Info("SMS dispatcher stopped.", nil)
	return nil
}
