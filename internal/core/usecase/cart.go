package usecase

import (
	"context"
	"fmt"
	"time"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
)

// AddToCartUseCase кладет денормализованную копию участка в корзину
// пользователя. Дубликат (тот же PlotID) не добавляется повторно.
type AddToCartUseCase struct {
	storage port.ParcelStoragePort
	cart    port.CartStorePort
}

// NewAddToCartUseCase создает новый экземпляр use case.
func NewAddToCartUseCase(storage port.ParcelStoragePort, cart port.CartStorePort) *AddToCartUseCase {
	return &AddToCartUseCase{storage: storage, cart: cart}
}

func (uc *AddToCartUseCase) Execute(ctx context.Context, userID uuid.UUID, siteID, plotID string) (*domain.CartItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AddToCart",
		"user_id":  userID,
		"site_id":  siteID,
		"plot_id":  plotID,
	})

	ucLogger.Info("Use case started", nil)

	site, err := constants.SiteByID(siteID)
	if err != nil {
		ucLogger.Warn("Unknown site id.", nil)
		return nil, err
	}

	parcel, err := uc.storage.GetByID(ctx, siteID, plotID)
	if err != nil {
		ucLogger.Error("Failed to load parcel", err, nil)
		return nil, err
	}

	if !parcel.ForSale() {
		ucLogger.Warn("Plot is not priced for sale, not adding to cart.", nil)
		return nil, fmt.Errorf("plot %s is not yet for sale", plotID)
	}
	if !parcel.Status.IsClaimable() {
		ucLogger.Warn("Plot is not claimable, not adding to cart.", port.Fields{"status": parcel.Status})
		return nil, fmt.Errorf("plot %s is already %s", plotID, parcel.Status)
	}

	item := domain.CartItem{
		PlotID:          parcel.ID,
		SiteID:          siteID,
		PlotNumber:      parcel.Properties.PlotNumber,
		Location:        site.Location,
		AreaAcres:       parcel.Properties.AreaAcres,
		PlotTotalAmount: parcel.PlotTotalAmount,
		Status:          parcel.Status,
		AddedAt:         time.Now().UTC(),
	}

	if !uc.cart.Add(userID, item) {
		ucLogger.Warn("Plot is already in the cart.", nil)
		return nil, fmt.Errorf("plot %s is already in the cart", plotID)
	}

	ucLogger.Info("Use case finished: plot added to cart", nil)
	return &item, nil
}

// RemoveFromCartUseCase убирает участок из корзины пользователя.
type RemoveFromCartUseCase struct {
	cart port.CartStorePort
}

// NewRemoveFromCartUseCase создает новый экземпляр use case.
func NewRemoveFromCartUseCase(cart port.CartStorePort) *RemoveFromCartUseCase {
	return &RemoveFromCartUseCase{cart: cart}
}

func (uc *RemoveFromCartUseCase) Execute(ctx context.Context, userID uuid.UUID, plotID string) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RemoveFromCart",
		"user_id":  userID,
		"plot_id":  plotID,
	})

	if !uc.cart.Remove(userID, plotID) {
		ucLogger.Warn("Plot is not in the cart.", nil)
		return fmt.Errorf("plot %s is not in the cart", plotID)
	}

	ucLogger.Info("Plot removed from cart", nil)
	return nil
}

// GetCartUseCase возвращает текущее содержимое корзины пользователя.
type GetCartUseCase struct {
	cart port.CartStorePort
}

// NewGetCartUseCase создает новый экземпляр use case.
func NewGetCartUseCase(cart port.CartStorePort) *GetCartUseCase {
	return &GetCartUseCase{cart: cart}
}

func (uc *GetCartUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	return uc.cart.Items(userID), nil
}
