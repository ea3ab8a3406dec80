package usecase

import (
	"context"
	"fmt"
	"time"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// AdminSetStatusUseCase - привилегированная смена статуса участка.
//
// В отличие от покупательского workflow запись безусловная: админ может
// перевести участок в любой статус из любого, включая снятие Sold обратно
// в Available. Поля покупателя при этом не трогаются.
type AdminSetStatusUseCase struct {
	storage port.ParcelStoragePort
	events  port.EventPublisherPort
}

// NewAdminSetStatusUseCase создает новый экземпляр use case.
func NewAdminSetStatusUseCase(storage port.ParcelStoragePort, events port.EventPublisherPort) *AdminSetStatusUseCase {
	return &AdminSetStatusUseCase{storage: storage, events: events}
}

func (uc *AdminSetStatusUseCase) Execute(ctx context.Context, role, siteID, plotID string, newStatus domain.PlotStatus) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "AdminSetStatus",
		"site_id":    siteID,
		"plot_id":    plotID,
		"new_status": newStatus,
	})

	ucLogger.Info("Use case started", nil)

	if !domain.IsPrivileged(role) {
		ucLogger.Warn("Rejected: caller role is not privileged.", port.Fields{"role": role})
		return fmt.Errorf("role %q is not allowed to override plot status", role)
	}

	if domain.NormalizeStatus(string(newStatus)) != newStatus {
		ucLogger.Warn("Rejected: unknown target status.", nil)
		return fmt.Errorf("unknown plot status %q", newStatus)
	}

	parcel, err := uc.storage.GetByID(ctx, siteID, plotID)
	if err != nil {
		ucLogger.Error("Failed to load parcel", err, nil)
		return err
	}

	// nil expected = безусловная перезапись (легаси-поведение override).
	if err := uc.storage.UpdateStatus(ctx, siteID, plotID, newStatus, parcel.Buyer, nil); err != nil {
		ucLogger.Error("Failed to override plot status", err, nil)
		return err
	}

	if uc.events != nil {
		err := uc.events.PublishStatusChanged(ctx, port.PlotStatusEvent{
			SiteID:    siteID,
			PlotID:    plotID,
			OldStatus: parcel.Status,
			NewStatus: newStatus,
			Actor:     role,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			ucLogger.Error("Failed to publish status event", err, nil)
		}
	}

	ucLogger.Info("Use case finished: plot status overridden", port.Fields{"old_status": parcel.Status})
	return nil
}
