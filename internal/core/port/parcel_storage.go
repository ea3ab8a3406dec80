package port

import (
	"context"
	"plot-service/internal/core/domain"
)

// ErrStatusConflict возвращается условным обновлением статуса, когда
// текущий статус участка не входит в ожидаемый набор (участок уже
// перехвачен другим клиентом или переведен админом).
type ErrStatusConflict struct {
	PlotID string
}

func (e *ErrStatusConflict) Error() string {
	return "plot " + e.PlotID + " is no longer in an expected status"
}

// ErrPlotNotFound - участок с таким id отсутствует в таблице сайта.
type ErrPlotNotFound struct {
	PlotID string
}

func (e *ErrPlotNotFound) Error() string {
	return "plot " + e.PlotID + " not found"
}

// ParcelStoragePort - контракт хранилища участков.
//
// UpdateStatus принимает ожидаемый набор текущих статусов (compare-and-swap
// на уровне SQL). nil-набор означает безусловную перезапись - её использует
// только админский override, сохраняя легаси-поведение last-write-wins.
type ParcelStoragePort interface {
	// Import загружает партию участков из данных геодезии.
	// Дубли (по пространственному ключу) пропускаются; возвращается
	// число реально вставленных строк.
	Import(ctx context.Context, siteID string, parcels []domain.Parcel) (int, error)
	FetchBatch(ctx context.Context, siteID string, offset, limit int) ([]domain.Parcel, error)
	GetByID(ctx context.Context, siteID, plotID string) (*domain.Parcel, error)
	UpdateStatus(ctx context.Context, siteID, plotID string, status domain.PlotStatus, buyer domain.BuyerInfo, expected []domain.PlotStatus) error
	UpdatePrice(ctx context.Context, siteID, plotID string, newTotal, newPaid, newRemaining float64) error
}
