package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"
)

// GetParcelsUseCasePort - выборка участков сайта, опционально обрезанная
// по viewport карты.
type GetParcelsUseCasePort interface {
	Execute(ctx context.Context, siteID string, viewport *domain.Bounds) ([]domain.Parcel, error)
}
