package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"
)

type GetParcelDetailsUseCasePort interface {
	Execute(ctx context.Context, siteID, plotID string) (*domain.Parcel, error)
}
