package usecase

import (
	"context"
	"fmt"
	"time"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
)

// ReserveOrBuyUseCase - стандартный workflow покупателя.
//
// Путь покупателя никогда не ставит Sold или Reserved напрямую: действие
// фиксирует намерение и переводит участок в On Hold, пока оплата
// проверяется вручную вне системы. Финальный статус ставит админ.
//
// Между отправкой письма и записью статуса нет атомарности: ошибка письма
// логируется, попадает в результат как предупреждение и НЕ отменяет
// обновление статуса (семантика источника сохранена).
type ReserveOrBuyUseCase struct {
	storage port.ParcelStoragePort
	docgen  port.DocumentGeneratorPort
	mailer  port.MailerPort
	sms     port.SMSDispatcherPort
	cart    port.CartStorePort
	events  port.EventPublisherPort
}

// NewReserveOrBuyUseCase создает новый экземпляр use case.
// events может быть nil - публикация событий тогда пропускается.
func NewReserveOrBuyUseCase(
	storage port.ParcelStoragePort,
	docgen port.DocumentGeneratorPort,
	mailer port.MailerPort,
	sms port.SMSDispatcherPort,
	cart port.CartStorePort,
	events port.EventPublisherPort,
) *ReserveOrBuyUseCase {
	return &ReserveOrBuyUseCase{
		storage: storage,
		docgen:  docgen,
		mailer:  mailer,
		sms:     sms,
		cart:    cart,
		events:  events,
	}
}

func (uc *ReserveOrBuyUseCase) Execute(ctx context.Context, siteID, plotID string, mode domain.ClaimMode, buyer domain.BuyerInfo, userID *uuid.UUID) (*domain.ClaimResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ReserveOrBuy",
		"site_id":  siteID,
		"plot_id":  plotID,
		"mode":     mode,
	})

	ucLogger.Info("Use case started", nil)

	// 1. Валидация "все или ничего" - до любых записей.
	if err := buyer.Validate(); err != nil {
		ucLogger.Warn("Buyer validation failed, aborting before any write.", port.Fields{"error": err.Error()})
		return nil, err
	}

	site, err := constants.SiteByID(siteID)
	if err != nil {
		ucLogger.Warn("Unknown site id.", nil)
		return nil, err
	}

	parcel, err := uc.storage.GetByID(ctx, siteID, plotID)
	if err != nil {
		ucLogger.Error("Failed to load parcel", err, nil)
		return nil, err
	}

	// 2. Участки с нулевой ценой еще не выставлены на продажу.
	if !parcel.ForSale() {
		ucLogger.Warn("Plot is not priced for sale, rejecting.", nil)
		return nil, fmt.Errorf("plot %s is not yet for sale", plotID)
	}

	// Sold/Reserved недоступны стандартному workflow.
	if !parcel.Status.IsClaimable() {
		ucLogger.Warn("Plot is not claimable from its current status.", port.Fields{"status": parcel.Status})
		return nil, fmt.Errorf("plot %s is already %s", plotID, parcel.Status)
	}

	oldStatus := parcel.Status

	// 3. Платежный документ.
	document, err := uc.docgen.Generate(port.DocumentData{
		SiteLocation: site.Location,
		Buyer:        buyer,
		Plots:        []domain.Parcel{*parcel},
		Mode:         string(mode),
	})
	if err != nil {
		ucLogger.Error("Failed to generate plot document", err, nil)
		return nil, fmt.Errorf("failed to generate plot document: %w", err)
	}

	result := &domain.ClaimResult{
		PlotIDs:   []string{plotID},
		NewStatus: domain.StatusOnHold,
		MailSent:  true,
	}

	// 4. Письмо с документом. Ошибка восстановима и не прерывает workflow.
	mailErr := uc.mailer.Send(ctx, port.MailRequest{
		Recipient: buyer.Email,
		Subject:   mailSubject(mode, site.Location),
		Buyer:     buyer,
		SiteID:    siteID,
		PlotIDs:   []string{plotID},
		Document:  document,
		Filename:  fmt.Sprintf("plot-%s.pdf", plotID),
	})
	if mailErr != nil {
		ucLogger.Error("Mail submission failed, proceeding with status update anyway", mailErr, nil)
		result.MailSent = false
		result.MailError = mailErr.Error()
	}

	// 5. Условное обновление статуса: участок берется только из
	// Available/On Hold, одновременная чужая заявка получит конфликт.
	err = uc.storage.UpdateStatus(ctx, siteID, plotID, domain.StatusOnHold, buyer,
		[]domain.PlotStatus{domain.StatusAvailable, domain.StatusOnHold})
	if err != nil {
		ucLogger.Error("Failed to place plot on hold", err, nil)
		return nil, err
	}

	// 6. Серия из трех SMS - fire-and-forget, с паузами между сообщениями.
	uc.sms.Enqueue(ctx, buyer.Phone, claimSMSMessages(mode, parcel, site.Location))

	// 7. Чистим корзину и публикуем событие (best-effort).
	if userID != nil && uc.cart.Remove(*userID, plotID) {
		ucLogger.Debug("Cart entry cleared after claim.", port.Fields{"user_id": *userID})
	}

	uc.publishStatusEvent(ctx, ucLogger, siteID, plotID, oldStatus, buyer.Email)

	ucLogger.Info("Use case finished: plot placed on hold", port.Fields{"mail_sent": result.MailSent})
	return result, nil
}

func (uc *ReserveOrBuyUseCase) publishStatusEvent(ctx context.Context, logger port.LoggerPort, siteID, plotID string, oldStatus domain.PlotStatus, actor string) {
	if uc.events == nil {
		return
	}
	err := uc.events.PublishStatusChanged(ctx, port.PlotStatusEvent{
		SiteID:    siteID,
		PlotID:    plotID,
		OldStatus: oldStatus,
		NewStatus: domain.StatusOnHold,
		Actor:     actor,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		// Событие best-effort: запись статуса уже состоялась.
		logger.Error("Failed to publish status event", err, nil)
	}
}

func mailSubject(mode domain.ClaimMode, location string) string {
	if mode == domain.ModeReserve {
		return "Plot Reservation Notice - " + location
	}
	return "Plot Purchase Notice - " + location
}

// claimSMSMessages - тексты серии из трех сообщений покупателю.
func claimSMSMessages(mode domain.ClaimMode, parcel *domain.Parcel, location string) []string {
	action := "purchase"
	if mode == domain.ModeReserve {
		action = "reservation"
	}
	return []string{
		fmt.Sprintf("Your %s request for plot %s (%s) has been received and the plot is now on hold.",
			action, parcel.Properties.PlotNumber, location),
		fmt.Sprintf("Amount due: %.2f. Payment details and instructions have been sent to your email.",
			parcel.RemainingAmount),
		"Please complete payment within 14 days, otherwise the hold will be released. Thank you.",
	}
}
