package usecase

import (
	"context"
	"testing"

	"plot-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSetStatusRejectsUnprivilegedRole(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAdminSetStatusUseCase(storage, nil)

	for _, role := range []string{"user", "", "manager"} {
		err := uc.Execute(context.Background(), role, "trabuom", "12", domain.StatusSold)
		require.Error(t, err)
	}
	assert.Empty(t, storage.statusUpdates)
}

func TestAdminSetStatusRejectsUnknownStatus(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAdminSetStatusUseCase(storage, nil)

	err := uc.Execute(context.Background(), domain.RoleAdmin, "trabuom", "12", "Pending")

	require.Error(t, err)
	assert.Empty(t, storage.statusUpdates)
}

func TestAdminSetStatusUnconditionalOverwrite(t *testing.T) {
	storage := newFakeParcelStorage()
	sold := availableParcel("12")
	sold.Status = domain.StatusSold
	storage.put("trabuom", sold)
	events := &fakeEventPublisher{}
	uc := NewAdminSetStatusUseCase(storage, events)

	// Админ может вернуть проданный участок в продажу.
	err := uc.Execute(context.Background(), domain.RoleSysadmin, "trabuom", "12", domain.StatusAvailable)

	require.NoError(t, err)
	require.Len(t, storage.statusUpdates, 1)
	update := storage.statusUpdates[0]
	assert.Equal(t, domain.StatusAvailable, update.Status)
	// nil expected = безусловная перезапись.
	assert.Nil(t, update.Expected)

	require.Len(t, events.events, 1)
	assert.Equal(t, domain.StatusSold, events.events[0].OldStatus)
	assert.Equal(t, "sysadmin", events.events[0].Actor)
}

func TestAdminSetPriceRejectsUnprivilegedRole(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAdminSetPriceUseCase(storage)

	err := uc.Execute(context.Background(), "user", "trabuom", "12", 60000)

	require.Error(t, err)
	assert.Empty(t, storage.priceUpdates)
}

func TestAdminSetPriceRejectsNegativeTotal(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAdminSetPriceUseCase(storage)

	err := uc.Execute(context.Background(), domain.RoleAdmin, "trabuom", "12", -1)

	require.Error(t, err)
	assert.Empty(t, storage.priceUpdates)
}

func TestAdminSetPriceRecomputesRemaining(t *testing.T) {
	storage := newFakeParcelStorage()
	parcel := availableParcel("12")
	parcel.PlotTotalAmount = 50000
	parcel.PaidAmount = 20000
	storage.put("trabuom", parcel)
	uc := NewAdminSetPriceUseCase(storage)

	err := uc.Execute(context.Background(), domain.RoleAdmin, "trabuom", "12", 60000)

	require.NoError(t, err)
	require.Len(t, storage.priceUpdates, 1)
	update := storage.priceUpdates[0]
	assert.Equal(t, 60000.0, update.Total)
	assert.Equal(t, 20000.0, update.Paid)
	assert.Equal(t, 40000.0, update.Remaining)
}

func TestAdminSetPriceZeroPaidDefaultsToFullRemaining(t *testing.T) {
	storage := newFakeParcelStorage()
	storage.put("trabuom", availableParcel("12"))
	uc := NewAdminSetPriceUseCase(storage)

	err := uc.Execute(context.Background(), domain.RoleAdmin, "trabuom", "12", 45000)

	require.NoError(t, err)
	require.Len(t, storage.priceUpdates, 1)
	assert.Equal(t, 45000.0, storage.priceUpdates[0].Remaining)
}
