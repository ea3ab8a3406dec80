package usecase

import (
	"context"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

type GetParcelDetailsUseCase struct {
	storage port.ParcelStoragePort
}

func NewGetParcelDetailsUseCase(storage port.ParcelStoragePort) *GetParcelDetailsUseCase {
	return &GetParcelDetailsUseCase{storage: storage}
}

func (uc *GetParcelDetailsUseCase) Execute(ctx context.Context, siteID, plotID string) (*domain.Parcel, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetParcelDetails",
		"site_id":  siteID,
		"plot_id":  plotID,
	})

	parcel, err := uc.storage.GetByID(ctx, siteID, plotID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Debug("Use case finished.", nil)
	return parcel, nil
}
