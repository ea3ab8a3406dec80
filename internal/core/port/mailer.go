package port

import (
	"context"
	"plot-service/internal/core/domain"
)

// MailRequest - данные одного исходящего письма с вложенным документом.
type MailRequest struct {
	Recipient string
	Subject   string
	Buyer     domain.BuyerInfo
	SiteID    string
	PlotIDs   []string
	// Document - готовый PDF. Может быть nil (письма без вложения).
	Document []byte
	Filename string
}

// MailerPort - контракт шлюза исходящей почты.
// Любой не-2xx ответ шлюза считается восстановимой ошибкой:
// вызывающий код логирует её и продолжает работу.
type MailerPort interface {
	Send(ctx context.Context, req MailRequest) error
}
