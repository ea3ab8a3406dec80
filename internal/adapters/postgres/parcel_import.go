package postgres_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// Import вставляет партию участков в таблицу сайта в одной транзакции.
// Конфликт по геоключу (тот же участок из повторной выгрузки геодезии)
// пропускается через ON CONFLICT DO NOTHING.
func (r *ParcelRepository) Import(ctx context.Context, siteID string, parcels []domain.Parcel) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "Import",
		"site_id":   siteID,
		"count":     len(parcels),
	})

	site, err := constants.SiteByID(siteID)
	if err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, geometry, plot_number, street_name, area_acres, status, geo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (geo_key) DO NOTHING`, site.TableName)

	inserted := 0
	for _, p := range parcels {
		geomJSON, err := json.Marshal(p.Geometry)
		if err != nil {
			repoLogger.Error("Failed to marshal parcel geometry", err, port.Fields{"plot_id": p.ID})
			return inserted, fmt.Errorf("failed to marshal geometry of plot %s: %w", p.ID, err)
		}

		status := p.Status
		if status == "" {
			status = domain.StatusAvailable
		}

		cmdTag, err := tx.Exec(ctx, query,
			p.ID, geomJSON,
			p.Properties.PlotNumber, p.Properties.StreetName, p.Properties.AreaAcres,
			string(status), buildGeoKey(p),
		)
		if err != nil {
			repoLogger.Error("Failed to insert parcel", err, port.Fields{"plot_id": p.ID})
			return inserted, fmt.Errorf("failed to insert plot %s: %w", p.ID, err)
		}
		inserted += int(cmdTag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit import transaction", err, nil)
		return 0, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	repoLogger.Info("Parcels imported.", port.Fields{"inserted": inserted, "skipped": len(parcels) - inserted})
	return inserted, nil
}
