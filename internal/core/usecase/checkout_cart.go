package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
)

// CheckoutCartUseCase - оформление всей корзины одной операцией:
// один общий документ и одно письмо на все участки, статус обновляется
// по каждому участку отдельно, одна серия SMS, корзина очищается в конце.
//
// Участки, ставшие недоступными между добавлением в корзину и checkout
// (проданы, зарезервированы, сняты с продажи), пропускаются с предупреждением
// в логе; операция падает целиком только если не осталось ни одного участка.
type CheckoutCartUseCase struct {
	storage port.ParcelStoragePort
	docgen  port.DocumentGeneratorPort
	mailer  port.MailerPort
	sms     port.SMSDispatcherPort
	cart    port.CartStorePort
	events  port.EventPublisherPort
}

// NewCheckoutCartUseCase создает новый экземпляр use case.
func NewCheckoutCartUseCase(
	storage port.ParcelStoragePort,
	docgen port.DocumentGeneratorPort,
	mailer port.MailerPort,
	sms port.SMSDispatcherPort,
	cart port.CartStorePort,
	events port.EventPublisherPort,
) *CheckoutCartUseCase {
	return &CheckoutCartUseCase{
		storage: storage,
		docgen:  docgen,
		mailer:  mailer,
		sms:     sms,
		cart:    cart,
		events:  events,
	}
}

func (uc *CheckoutCartUseCase) Execute(ctx context.Context, userID uuid.UUID, buyer domain.BuyerInfo) (*domain.ClaimResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CheckoutCart",
		"user_id":  userID,
	})

	ucLogger.Info("Use case started", nil)

	if err := buyer.Validate(); err != nil {
		ucLogger.Warn("Buyer validation failed, aborting before any write.", port.Fields{"error": err.Error()})
		return nil, err
	}

	items := uc.cart.Items(userID)
	if len(items) == 0 {
		ucLogger.Warn("Cart is empty, nothing to check out.", nil)
		return nil, fmt.Errorf("cart is empty")
	}

	// Собираем актуальное состояние каждого участка; устаревшие
	// элементы корзины отсеиваются здесь.
	var (
		parcels   []domain.Parcel
		sites     []string
		locations []string
		seenSites = make(map[string]bool)
	)
	for _, item := range items {
		site, err := constants.SiteByID(item.SiteID)
		if err != nil {
			ucLogger.Warn("Cart item references unknown site, skipping.", port.Fields{"site_id": item.SiteID, "plot_id": item.PlotID})
			continue
		}
		parcel, err := uc.storage.GetByID(ctx, item.SiteID, item.PlotID)
		if err != nil {
			ucLogger.Warn("Cart item no longer resolvable, skipping.", port.Fields{"site_id": item.SiteID, "plot_id": item.PlotID, "error": err.Error()})
			continue
		}
		if !parcel.ForSale() || !parcel.Status.IsClaimable() {
			ucLogger.Warn("Cart item no longer claimable, skipping.", port.Fields{"plot_id": item.PlotID, "status": parcel.Status})
			continue
		}
		parcels = append(parcels, *parcel)
		sites = append(sites, item.SiteID)
		if !seenSites[item.SiteID] {
			seenSites[item.SiteID] = true
			locations = append(locations, site.Location)
		}
	}

	if len(parcels) == 0 {
		ucLogger.Warn("No claimable plots left in cart.", nil)
		return nil, fmt.Errorf("no claimable plots in cart")
	}

	location := strings.Join(locations, ", ")

	document, err := uc.docgen.Generate(port.DocumentData{
		SiteLocation: location,
		Buyer:        buyer,
		Plots:        parcels,
		Mode:         string(domain.ModeBuy),
	})
	if err != nil {
		ucLogger.Error("Failed to generate plot document", err, nil)
		return nil, fmt.Errorf("failed to generate plot document: %w", err)
	}

	plotIDs := make([]string, len(parcels))
	for i, p := range parcels {
		plotIDs[i] = p.ID
	}

	result := &domain.ClaimResult{
		NewStatus: domain.StatusOnHold,
		MailSent:  true,
	}

	mailErr := uc.mailer.Send(ctx, port.MailRequest{
		Recipient: buyer.Email,
		Subject:   "Plot Purchase Notice - " + location,
		Buyer:     buyer,
		SiteID:    strings.Join(sites, ","),
		PlotIDs:   plotIDs,
		Document:  document,
		Filename:  "plot-checkout.pdf",
	})
	if mailErr != nil {
		ucLogger.Error("Mail submission failed, proceeding with status updates anyway", mailErr, nil)
		result.MailSent = false
		result.MailError = mailErr.Error()
	}

	// Статус обновляется по каждому участку отдельно: конфликт по одному
	// участку не откатывает уже взятые.
	var totalDue float64
	for i, parcel := range parcels {
		err := uc.storage.UpdateStatus(ctx, sites[i], parcel.ID, domain.StatusOnHold, buyer,
			[]domain.PlotStatus{domain.StatusAvailable, domain.StatusOnHold})
		if err != nil {
			ucLogger.Error("Failed to place plot on hold during checkout", err, port.Fields{"plot_id": parcel.ID})
			continue
		}
		result.PlotIDs = append(result.PlotIDs, parcel.ID)
		totalDue += parcel.RemainingAmount
		uc.publishStatusEvent(ctx, ucLogger, sites[i], parcel.ID, parcel.Status, buyer.Email)
	}

	if len(result.PlotIDs) == 0 {
		return nil, fmt.Errorf("no plots could be placed on hold")
	}

	uc.sms.Enqueue(ctx, buyer.Phone, checkoutSMSMessages(len(result.PlotIDs), totalDue))

	uc.cart.Clear(userID)

	ucLogger.Info("Use case finished: cart checked out", port.Fields{
		"claimed":   len(result.PlotIDs),
		"requested": len(items),
		"mail_sent": result.MailSent,
	})
	return result, nil
}

func (uc *CheckoutCartUseCase) publishStatusEvent(ctx context.Context, logger port.LoggerPort, siteID, plotID string, oldStatus domain.PlotStatus, actor string) {
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
		logger.Error("Failed to publish status event", err, nil)
	}
}

func checkoutSMSMessages(count int, totalDue float64) []string {
	return []string{
		fmt.Sprintf("Your purchase request for %d plot(s) has been received and the plots are now on hold.", count),
		fmt.Sprintf("Total amount due: %.2f. Payment details and instructions have been sent to your email.", totalDue),
		"Please complete payment within 14 days, otherwise the hold will be released. Thank you.",
	}
}
