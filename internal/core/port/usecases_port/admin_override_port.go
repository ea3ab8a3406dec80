package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"
)

// AdminSetStatusUseCasePort - привилегированная безусловная смена статуса.
type AdminSetStatusUseCasePort interface {
	Execute(ctx context.Context, role, siteID, plotID string, newStatus domain.PlotStatus) error
}

// AdminSetPriceUseCasePort - привилегированная смена цены с пересчетом остатка.
type AdminSetPriceUseCasePort interface {
	Execute(ctx context.Context, role, siteID, plotID string, newTotal float64) error
}
