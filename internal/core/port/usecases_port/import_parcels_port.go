package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"
)

// ImportParcelsUseCasePort - пакетная загрузка данных геодезии в таблицу сайта.
type ImportParcelsUseCasePort interface {
	Execute(ctx context.Context, role, siteID string, parcels []domain.Parcel) (int, error)
}
