package usecase

import (
	"context"
	"errors"
	"testing"

	"plot-service/internal/adapters/cartmemory"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuyer() domain.BuyerInfo {
	return domain.BuyerInfo{
		Firstname:          "Kofi",
		Lastname:           "Mensah",
		Email:              "kofi.mensah@example.com",
		Phone:              "0244123456",
		Country:            "Ghana",
		ResidentialAddress: "12 Airport Road, Accra",
	}
}

func availableParcel(plotID string) domain.Parcel {
	return domain.Parcel{
		ID:     plotID,
		SiteID: "trabuom",
		Geometry: domain.Ring{
			{Lng: -1.62, Lat: 6.66}, {Lng: -1.61, Lat: 6.66},
			{Lng: -1.61, Lat: 6.67}, {Lng: -1.62, Lat: 6.66},
		},
		Properties:      domain.PlotProperties{PlotNumber: "TB-" + plotID, StreetName: "First Street", AreaAcres: 0.25},
		Status:          domain.StatusAvailable,
		PlotTotalAmount: 50000,
		RemainingAmount: 50000,
	}
}

type claimFixture struct {
	storage *fakeParcelStorage
	docgen  *fakeDocGenerator
	mailer  *fakeMailer
	sms     *fakeSMSDispatcher
	cart    *cartmemory.Store
	events  *fakeEventPublisher
	uc      *ReserveOrBuyUseCase
}

func newClaimFixture() *claimFixture {
	f := &claimFixture{
		storage: newFakeParcelStorage(),
		docgen:  &fakeDocGenerator{},
		mailer:  &fakeMailer{},
		sms:     &fakeSMSDispatcher{},
		cart:    cartmemory.NewStore(contextkeys.LoggerFromContext(context.Background())),
		events:  &fakeEventPublisher{},
	}
	f.uc = NewReserveOrBuyUseCase(f.storage, f.docgen, f.mailer, f.sms, f.cart, f.events)
	return f
}

func TestReserveOrBuyHappyPath(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))

	userID := uuid.New()
	f.cart.Add(userID, domain.CartItem{PlotID: "12", SiteID: "trabuom"})

	result, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), &userID)

	require.NoError(t, err)
	assert.Equal(t, []string{"12"}, result.PlotIDs)
	assert.Equal(t, domain.StatusOnHold, result.NewStatus)
	assert.True(t, result.MailSent)
	assert.Empty(t, result.MailError)

	// Один документ, одно письмо с вложением.
	require.Len(t, f.docgen.calls, 1)
	assert.Equal(t, "buy", f.docgen.calls[0].Mode)
	require.Len(t, f.mailer.requests, 1)
	assert.Equal(t, "kofi.mensah@example.com", f.mailer.requests[0].Recipient)
	assert.NotEmpty(t, f.mailer.requests[0].Document)

	// Условный перевод в On Hold с перезаписью полей покупателя.
	require.Len(t, f.storage.statusUpdates, 1)
	update := f.storage.statusUpdates[0]
	assert.Equal(t, domain.StatusOnHold, update.Status)
	assert.Equal(t, testBuyer(), update.Buyer)
	assert.Equal(t, []domain.PlotStatus{domain.StatusAvailable, domain.StatusOnHold}, update.Expected)

	// Серия ровно из трех сообщений на телефон покупателя.
	require.Len(t, f.sms.series, 1)
	assert.Equal(t, "0244123456", f.sms.series[0].Phone)
	assert.Len(t, f.sms.series[0].Messages, 3)

	// Корзина очищена, событие опубликовано.
	assert.False(t, f.cart.Contains(userID, "12"))
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.StatusAvailable, f.events.events[0].OldStatus)
	assert.Equal(t, domain.StatusOnHold, f.events.events[0].NewStatus)
}

func TestReserveOrBuyMailFailureStillUpdatesStatus(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))
	f.mailer.err = errBoom

	result, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeReserve, testBuyer(), nil)

	require.NoError(t, err)
	assert.False(t, result.MailSent)
	assert.Contains(t, result.MailError, "boom")
	assert.Len(t, f.storage.statusUpdates, 1)
	assert.Len(t, f.sms.series, 1)
}

func TestReserveOrBuyValidationFailureWritesNothing(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))

	_, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, domain.BuyerInfo{}, nil)

	require.Error(t, err)
	var validationErr *domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Empty(t, f.docgen.calls)
	assert.Empty(t, f.mailer.requests)
	assert.Empty(t, f.storage.statusUpdates)
	assert.Empty(t, f.sms.series)
}

func TestReserveOrBuyRejectsSoldAndReserved(t *testing.T) {
	for _, status := range []domain.PlotStatus{domain.StatusSold, domain.StatusReserved} {
		t.Run(string(status), func(t *testing.T) {
			f := newClaimFixture()
			parcel := availableParcel("12")
			parcel.Status = status
			f.storage.put("trabuom", parcel)

			_, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

			require.Error(t, err)
			assert.Empty(t, f.storage.statusUpdates)
			assert.Empty(t, f.mailer.requests)
		})
	}
}

func TestReserveOrBuyAllowsReclaimFromOnHold(t *testing.T) {
	f := newClaimFixture()
	parcel := availableParcel("12")
	parcel.Status = domain.StatusOnHold
	f.storage.put("trabuom", parcel)

	_, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

	require.NoError(t, err)
	assert.Len(t, f.storage.statusUpdates, 1)
}

func TestReserveOrBuyBlocksZeroPricedPlot(t *testing.T) {
	f := newClaimFixture()
	parcel := availableParcel("12")
	parcel.PlotTotalAmount = 0
	f.storage.put("trabuom", parcel)

	_, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

	require.Error(t, err)
	assert.Empty(t, f.storage.statusUpdates)
}

func TestReserveOrBuyUnknownSite(t *testing.T) {
	f := newClaimFixture()

	_, err := f.uc.Execute(context.Background(), "atlantis", "12", domain.ModeBuy, testBuyer(), nil)

	require.Error(t, err)
}

func TestReserveOrBuyPlotNotFound(t *testing.T) {
	f := newClaimFixture()

	_, err := f.uc.Execute(context.Background(), "trabuom", "404", domain.ModeBuy, testBuyer(), nil)

	var notFound *port.ErrPlotNotFound
	require.Error(t, err)
	assert.True(t, errors.As(err, &notFound))
}

func TestReserveOrBuyStatusConflictPropagates(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))
	f.storage.updateStatusErr["12"] = &port.ErrStatusConflict{PlotID: "12"}

	_, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

	var conflict *port.ErrStatusConflict
	require.Error(t, err)
	assert.True(t, errors.As(err, &conflict))
	// SMS не уходят, если участок не удалось взять.
	assert.Empty(t, f.sms.series)
}

func TestReserveOrBuyEventFailureIsNotFatal(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))
	f.events.err = errBoom

	result, err := f.uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnHold, result.NewStatus)
}

func TestReserveOrBuyWorksWithoutEventPublisher(t *testing.T) {
	f := newClaimFixture()
	f.storage.put("trabuom", availableParcel("12"))
	uc := NewReserveOrBuyUseCase(f.storage, f.docgen, f.mailer, f.sms, f.cart, nil)

	_, err := uc.Execute(context.Background(), "trabuom", "12", domain.ModeBuy, testBuyer(), nil)

	require.NoError(t, err)
}
