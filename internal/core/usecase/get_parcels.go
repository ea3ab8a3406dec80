package usecase

import (
	"context"
	"fmt"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// GetParcelsUseCase отдает участки сайта для отрисовки карты.
//
// Хранилище режет одиночный запрос по потолку строк, поэтому полный
// набор собирается объединением последовательных страниц FetchBatch.
// Фильтрация по viewport - клиентская: O(n) проход по уже собранному
// набору, без пространственного индекса (предфильтр, не замена
// авторитетных запросов к хранилищу).
type GetParcelsUseCase struct {
	storage    port.ParcelStoragePort
	batchLimit int
}

// NewGetParcelsUseCase создает новый экземпляр use case.
func NewGetParcelsUseCase(storage port.ParcelStoragePort, batchLimit int) *GetParcelsUseCase {
	if batchLimit <= 0 {
		batchLimit = 1000
	}
	return &GetParcelsUseCase{
		storage:    storage,
		batchLimit: batchLimit,
	}
}

func (uc *GetParcelsUseCase) Execute(ctx context.Context, siteID string, viewport *domain.Bounds) ([]domain.Parcel, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetParcels",
		"site_id":  siteID,
	})

	ucLogger.Debug("Use case started: fetching all parcels in batches", nil)

	var all []domain.Parcel
	offset := 0
	for {
		batch, err := uc.storage.FetchBatch(ctx, siteID, offset, uc.batchLimit)
		if err != nil {
			ucLogger.Error("Storage returned an error during batch fetch", err, port.Fields{"offset": offset})
			return nil, fmt.Errorf("failed to fetch parcels batch at offset %d: %w", offset, err)
		}

		all = append(all, batch...)
		if len(batch) < uc.batchLimit {
			break
		}
		offset += uc.batchLimit
	}

	if viewport == nil {
		ucLogger.Info("Use case finished: returning full parcel set", port.Fields{"count": len(all)})
		return all, nil
	}

	visible := make([]domain.Parcel, 0, len(all))
	for _, parcel := range all {
		if domain.BoundingBox(parcel.Geometry).Intersects(*viewport) {
			visible = append(visible, parcel)
		}
	}

	ucLogger.Info("Use case finished: returning viewport-filtered parcels", port.Fields{
		"total": len(all), "visible": len(visible),
	})
	return visible, nil
}
