package postgres_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// parcelColumns - общий список колонок для SELECT-запросов.
// Статус и цены приводятся COALESCE-ом: null-статус означает Available,
// null-цена - "не выставлен на продажу" (нулевая).
const parcelColumns = `
	id,
	COALESCE(geometry, '[]'::jsonb),
	COALESCE(plot_number, ''),
	COALESCE(street_name, ''),
	COALESCE(area_acres, 0),
	COALESCE(status, 'Available'),
	COALESCE(plot_total_amount, 0),
	COALESCE(paid_amount, 0),
	COALESCE(remaining_amount, 0),
	COALESCE(firstname, ''),
	COALESCE(lastname, ''),
	COALESCE(email, ''),
	COALESCE(phone, ''),
	COALESCE(country, ''),
	COALESCE(residential_address, ''),
	COALESCE(agent, ''),
	COALESCE(remarks, '')`

// ParcelRepository реализует ParcelStoragePort для PostgreSQL.
// Имя таблицы подставляется только из реестра сайтов (constants.SiteByID),
// пользовательский ввод в идентификаторы SQL не попадает.
type ParcelRepository struct {
	pool *pgxpool.Pool
}

// NewParcelRepository создает новый экземпляр репозитория.
func NewParcelRepository(pool *pgxpool.Pool) (*ParcelRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ParcelRepository{pool: pool}, nil
}

func scanParcel(row pgx.Row, siteID string) (*domain.Parcel, error) {
	var p domain.Parcel
	var geomJSON []byte
	var rawStatus string

	err := row.Scan(
		&p.ID,
		&geomJSON,
		&p.Properties.PlotNumber,
		&p.Properties.StreetName,
		&p.Properties.AreaAcres,
		&rawStatus,
		&p.PlotTotalAmount,
		&p.PaidAmount,
		&p.RemainingAmount,
		&p.Buyer.Firstname,
		&p.Buyer.Lastname,
		&p.Buyer.Email,
		&p.Buyer.Phone,
		&p.Buyer.Country,
		&p.Buyer.ResidentialAddress,
		&p.Buyer.Agent,
		&p.Buyer.Remarks,
	)
	if err != nil {
		return nil, err
	}

	p.SiteID = siteID
	p.Status = domain.NormalizeStatus(rawStatus)
	if err := json.Unmarshal(geomJSON, &p.Geometry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal geometry for plot %s: %w", p.ID, err)
	}
	return &p, nil
}

// FetchBatch возвращает одну страницу участков сайта.
// Полная выборка собирается вызывающей стороной объединением страниц -
// одиночный запрос упирается в потолок строк хранилища.
func (r *ParcelRepository) FetchBatch(ctx context.Context, siteID string, offset, limit int) ([]domain.Parcel, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "FetchBatch",
		"site_id":   siteID,
		"offset":    offset,
		"limit":     limit,
	})

	site, err := constants.SiteByID(siteID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2`, parcelColumns, site.TableName)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query parcels batch", err, nil)
		return nil, fmt.Errorf("failed to query parcels batch: %w", err)
	}
	defer rows.Close()

	parcels := make([]domain.Parcel, 0, limit)
	for rows.Next() {
		p, err := scanParcel(rows, siteID)
		if err != nil {
			repoLogger.Error("Failed to scan parcel row", err, nil)
			return nil, fmt.Errorf("failed to scan parcel: %w", err)
		}
		parcels = append(parcels, *p)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during parcels iteration", err, nil)
		return nil, fmt.Errorf("error during parcels iteration: %w", err)
	}

	repoLogger.Debug("Fetched parcels batch.", port.Fields{"count": len(parcels)})
	return parcels, nil
}

// GetByID возвращает один участок по id.
func (r *ParcelRepository) GetByID(ctx context.Context, siteID, plotID string) (*domain.Parcel, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "GetByID",
		"site_id":   siteID,
		"plot_id":   plotID,
	})

	site, err := constants.SiteByID(siteID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, parcelColumns, site.TableName)

	p, err := scanParcel(r.pool.QueryRow(ctx, query, plotID), siteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			repoLogger.Warn("Plot not found.", nil)
			return nil, &port.ErrPlotNotFound{PlotID: plotID}
		}
		repoLogger.Error("Failed to get parcel by id", err, nil)
		return nil, fmt.Errorf("failed to get parcel %s: %w", plotID, err)
	}
	return p, nil
}

// UpdateStatus записывает статус и поля покупателя одним UPDATE-ом.
// Поля покупателя перезаписываются целиком (не append-only).
//
// При непустом expected обновление условное: WHERE status = ANY(expected)
// закрывает гонку "двое забирают один Available участок". nil-expected
// сохраняет безусловную перезапись для админского override.
func (r *ParcelRepository) UpdateStatus(ctx context.Context, siteID, plotID string, status domain.PlotStatus, buyer domain.BuyerInfo, expected []domain.PlotStatus) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "ParcelRepository",
		"method":     "UpdateStatus",
		"site_id":    siteID,
		"plot_id":    plotID,
		"new_status": status,
	})

	site, err := constants.SiteByID(siteID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			status = $1,
			firstname = $2, lastname = $3, email = $4, phone = $5,
			country = $6, residential_address = $7, agent = $8, remarks = $9
		WHERE id = $10`, site.TableName)

	args := []interface{}{
		string(status),
		buyer.Firstname, buyer.Lastname, buyer.Email, buyer.Phone,
		buyer.Country, buyer.ResidentialAddress, buyer.Agent, buyer.Remarks,
		plotID,
	}

	if len(expected) > 0 {
		expectedStrs := make([]string, len(expected))
		for i, s := range expected {
			expectedStrs[i] = string(s)
		}
		query += ` AND COALESCE(status, 'Available') = ANY($11)`
		args = append(args, expectedStrs)
	}

	cmdTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to update plot status", err, nil)
		return fmt.Errorf("failed to update status of plot %s: %w", plotID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Либо участка нет, либо его статус уже изменился. Различаем.
		exists, checkErr := r.plotExists(ctx, site.TableName, plotID)
		if checkErr != nil {
			repoLogger.Error("Failed to check plot existence after zero-row update", checkErr, nil)
			return checkErr
		}
		if !exists {
			repoLogger.Warn("Attempted to update status of a missing plot.", nil)
			return &port.ErrPlotNotFound{PlotID: plotID}
		}
		repoLogger.Warn("Conditional status update lost the race.", nil)
		return &port.ErrStatusConflict{PlotID: plotID}
	}

	repoLogger.Info("Plot status updated.", nil)
	return nil
}

// UpdatePrice записывает три ценовых поля вместе.
func (r *ParcelRepository) UpdatePrice(ctx context.Context, siteID, plotID string, newTotal, newPaid, newRemaining float64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "UpdatePrice",
		"site_id":   siteID,
		"plot_id":   plotID,
	})

	site, err := constants.SiteByID(siteID)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			plot_total_amount = $1,
			paid_amount = $2,
			remaining_amount = $3
		WHERE id = $4`, site.TableName)

	cmdTag, err := r.pool.Exec(ctx, query, newTotal, newPaid, newRemaining, plotID)
	if err != nil {
		repoLogger.Error("Failed to update plot price", err, nil)
		return fmt.Errorf("failed to update price of plot %s: %w", plotID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to update price of a missing plot.", nil)
		return &port.ErrPlotNotFound{PlotID: plotID}
	}

	repoLogger.Info("Plot price updated.", port.Fields{"new_total": newTotal, "new_remaining": newRemaining})
	return nil
}

func (r *ParcelRepository) plotExists(ctx context.Context, tableName, plotID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, tableName)
	if err := r.pool.QueryRow(ctx, query, plotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence of plot %s: %w", plotID, err)
	}
	return exists, nil
}
