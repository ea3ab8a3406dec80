package usecase

import (
	"context"
	"fmt"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// ImportParcelsUseCase - пакетная загрузка участков из данных геодезии.
// Дубли по пространственному ключу пропускаются на уровне хранилища,
// поэтому повторный импорт того же файла безопасен.
type ImportParcelsUseCase struct {
	storage port.ParcelStoragePort
}

// NewImportParcelsUseCase создает новый экземпляр use case.
func NewImportParcelsUseCase(storage port.ParcelStoragePort) *ImportParcelsUseCase {
	return &ImportParcelsUseCase{storage: storage}
}

func (uc *ImportParcelsUseCase) Execute(ctx context.Context, role, siteID string, parcels []domain.Parcel) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "ImportParcels",
		"site_id":  siteID,
		"count":    len(parcels),
	})

	ucLogger.Info("Use case started", nil)

	if !domain.IsPrivileged(role) {
		ucLogger.Warn("Rejected: caller role is not privileged.", port.Fields{"role": role})
		return 0, fmt.Errorf("role %q is not allowed to import parcels", role)
	}

	if _, err := constants.SiteByID(siteID); err != nil {
		ucLogger.Warn("Unknown site id.", nil)
		return 0, err
	}

	if len(parcels) == 0 {
		return 0, fmt.Errorf("nothing to import")
	}

	for i := range parcels {
		if len(parcels[i].Geometry) < 3 {
			return 0, fmt.Errorf("parcel %s: geometry must have at least 3 points", parcels[i].ID)
		}
		parcels[i].Status = domain.NormalizeStatus(string(parcels[i].Status))
	}

	inserted, err := uc.storage.Import(ctx, siteID, parcels)
	if err != nil {
		ucLogger.Error("Failed to import parcels", err, nil)
		return 0, err
	}

	ucLogger.Info("Use case finished: parcels imported", port.Fields{
		"inserted": inserted,
		"skipped":  len(parcels) - inserted,
	})
	return inserted, nil
}
