package usecase

import (
	"context"
	"fmt"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// AdminSetPriceUseCase - привилегированная смена цены участка.
// Остаток пересчитывается как newTotal - paid; отсутствующая сумма
// оплаты трактуется как ноль. Все три ценовых поля пишутся вместе.
type AdminSetPriceUseCase struct {
	storage port.ParcelStoragePort
}

// NewAdminSetPriceUseCase создает новый экземпляр use case.
func NewAdminSetPriceUseCase(storage port.ParcelStoragePort) *AdminSetPriceUseCase {
	return &AdminSetPriceUseCase{storage: storage}
}

func (uc *AdminSetPriceUseCase) Execute(ctx context.Context, role, siteID, plotID string, newTotal float64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "AdminSetPrice",
		"site_id":   siteID,
		"plot_id":   plotID,
		"new_total": newTotal,
	})

	ucLogger.Info("Use case started", nil)

	if !domain.IsPrivileged(role) {
		ucLogger.Warn("Rejected: caller role is not privileged.", port.Fields{"role": role})
		return fmt.Errorf("role %q is not allowed to change plot price", role)
	}

	if newTotal < 0 {
		ucLogger.Warn("Rejected: negative price.", nil)
		return fmt.Errorf("plot price must not be negative")
	}

	parcel, err := uc.storage.GetByID(ctx, siteID, plotID)
	if err != nil {
		ucLogger.Error("Failed to load parcel", err, nil)
		return err
	}

	paid := parcel.PaidAmount
	remaining := newTotal - paid

	if err := uc.storage.UpdatePrice(ctx, siteID, plotID, newTotal, paid, remaining); err != nil {
		ucLogger.Error("Failed to update plot price", err, nil)
		return err
	}

	ucLogger.Info("Use case finished: plot price updated", port.Fields{
		"paid":      paid,
		"remaining": remaining,
	})
	return nil
}
