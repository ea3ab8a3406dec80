package usecase

import (
	"context"
	"testing"

	"plot-service/internal/adapters/cartmemory"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartStore() *cartmemory.Store {
	return cartmemory.NewStore(contextkeys.LoggerFromContext(context.Background()))
}

func TestAddToCartDenormalizesParcel(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	cart := newCartStore()
	uc := NewAddToCartUseCase(storage, cart)
	userID := uuid.New()

	item, err := uc.Execute(context.Background(), userID, "trabuom", "12")

	require.NoError(t, err)
	assert.Equal(t, "12", item.PlotID)
	assert.Equal(t, "trabuom", item.SiteID)
	assert.Equal(t, "TB-12", item.PlotNumber)
	assert.Equal(t, 50000.0, item.PlotTotalAmount)
	assert.False(t, item.AddedAt.IsZero())
	assert.True(t, cart.Contains(userID, "12"))
}

func TestAddToCartRejectsDuplicate(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAddToCartUseCase(storage, newCartStore())
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "trabuom", "12")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), userID, "trabuom", "12")
	require.Error(t, err)
}

func TestAddToCartRejectsUnclaimableOrUnpriced(t *testing.T) {
	storage := newFakeParcelStorage()
	sold := availableParcel("1")
	sold.Status = domain.StatusSold
	storage.put("trabuom", sold)
	unpriced := availableParcel("2")
	unpriced.PlotTotalAmount = 0
	storage.put("trabuom", unpriced)
	uc := NewAddToCartUseCase(storage, newCartStore())
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "trabuom", "1")
	require.Error(t, err)

	_, err = uc.Execute(context.Background(), userID, "trabuom", "2")
	require.Error(t, err)
}

func TestAddToCartUnknownSiteOrPlot(t *testing.T) {
	storage := newFakeParcelStorage()
	uc := NewAddToCartUseCase(storage, newCartStore())
	userID := uuid.New()

	_, err := uc.Execute(context.Background(), userID, "atlantis", "12")
	require.Error(t, err)

	_, err = uc.Execute(context.Background(), userID, "trabuom", "404")
	require.Error(t, err)
}

func TestRemoveFromCart(t *testing.T) {
	cart := newCartStore()
	uc := NewRemoveFromCartUseCase(cart)
	userID := uuid.New()
	cart.Add(userID, domain.CartItem{PlotID: "12"})

	require.NoError(t, uc.Execute(context.Background(), userID, "12"))
	require.Error(t, uc.Execute(context.Background(), userID, "12"))
}

func TestGetCart(t *testing.T) {
	cart := newCartStore()
	uc := NewGetCartUseCase(cart)
	userID := uuid.New()

	items, err := uc.Execute(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	cart.Add(userID, domain.CartItem{PlotID: "12"})
	cart.Add(userID, domain.CartItem{PlotID: "13"})

	items, err = uc.Execute(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
