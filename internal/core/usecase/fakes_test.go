package usecase

import (
	"context"
	"fmt"
	"sync"

	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// Ручные фейки портов для тестов use case-ов.

type statusUpdate struct {
	SiteID   string
	PlotID   string
	Status   domain.PlotStatus
	Buyer    domain.BuyerInfo
	Expected []domain.PlotStatus
}

type priceUpdate struct {
	SiteID    string
	PlotID    string
	Total     float64
	Paid      float64
	Remaining float64
}

type fakeParcelStorage struct {
	mu sync.Mutex

	parcels map[string]*domain.Parcel // ключ: siteID/plotID
	all     []domain.Parcel           // страницы FetchBatch режутся отсюда

	fetchCalls    int
	statusUpdates []statusUpdate
	priceUpdates  []priceUpdate
	imported      []domain.Parcel

	updateStatusErr map[string]error // ключ: plotID
	getErr          error
	fetchErr        error
}

func newFakeParcelStorage() *fakeParcelStorage {
	return &fakeParcelStorage{
		parcels:         make(map[string]*domain.Parcel),
		updateStatusErr: make(map[string]error),
	}
}

func (f *fakeParcelStorage) put(siteID string, parcel domain.Parcel) {
	f.parcels[siteID+"/"+parcel.ID] = &parcel
}

func (f *fakeParcelStorage) Import(ctx context.Context, siteID string, parcels []domain.Parcel) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imported = append(f.imported, parcels...)
	return len(parcels), nil
}

func (f *fakeParcelStorage) FetchBatch(ctx context.Context, siteID string, offset, limit int) ([]domain.Parcel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if offset >= len(f.all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.all) {
		end = len(f.all)
	}
	return f.all[offset:end], nil
}

func (f *fakeParcelStorage) GetByID(ctx context.Context, siteID, plotID string) (*domain.Parcel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	parcel, ok := f.parcels[siteID+"/"+plotID]
	if !ok {
		return nil, &port.ErrPlotNotFound{PlotID: plotID}
	}
	copied := *parcel
	return &copied, nil
}

func (f *fakeParcelStorage) UpdateStatus(ctx context.Context, siteID, plotID string, status domain.PlotStatus, buyer domain.BuyerInfo, expected []domain.PlotStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateStatusErr[plotID]; err != nil {
		return err
	}
	f.statusUpdates = append(f.statusUpdates, statusUpdate{
		SiteID: siteID, PlotID: plotID, Status: status, Buyer: buyer, Expected: expected,
	})
	if parcel, ok := f.parcels[siteID+"/"+plotID]; ok {
		parcel.Status = status
		parcel.Buyer = buyer
	}
	return nil
}

func (f *fakeParcelStorage) UpdatePrice(ctx context.Context, siteID, plotID string, newTotal, newPaid, newRemaining float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceUpdates = append(f.priceUpdates, priceUpdate{
		SiteID: siteID, PlotID: plotID, Total: newTotal, Paid: newPaid, Remaining: newRemaining,
	})
	return nil
}

type fakeDocGenerator struct {
	calls []port.DocumentData
	err   error
}

func (f *fakeDocGenerator) Generate(data port.DocumentData) ([]byte, error) {
	f.calls = append(f.calls, data)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

type fakeMailer struct {
	requests []port.MailRequest
	err      error
}

func (f *fakeMailer) Send(ctx context.Context, req port.MailRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type smsSeries struct {
	Phone    string
	Messages []string
}

type fakeSMSDispatcher struct {
	series []smsSeries
}

func (f *fakeSMSDispatcher) Enqueue(ctx context.Context, phone string, messages []string) {
	f.series = append(f.series, smsSeries{Phone: phone, Messages: messages})
}

type fakeEventPublisher struct {
	events []port.PlotStatusEvent
	err    error
}

func (f *fakeEventPublisher) PublishStatusChanged(ctx context.Context, event port.PlotStatusEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeInterestStorage struct {
	inserted []*domain.Interest
	err      error
}

func (f *fakeInterestStorage) Insert(ctx context.Context, interest *domain.Interest) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, interest)
	return nil
}

var errBoom = fmt.Errorf("boom")
