package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейки use case-портов для тестов маршрутизации и HTTP-семантики.

type fakeGetParcels struct {
	parcels  []domain.Parcel
	err      error
	siteID   string
	viewport *domain.Bounds
}

func (f *fakeGetParcels) Execute(ctx context.Context, siteID string, viewport *domain.Bounds) ([]domain.Parcel, error) {
	f.siteID = siteID
	f.viewport = viewport
	return f.parcels, f.err
}

type fakeGetDetails struct {
	parcel *domain.Parcel
	err    error
}

func (f *fakeGetDetails) Execute(ctx context.Context, siteID, plotID string) (*domain.Parcel, error) {
	return f.parcel, f.err
}

type claimCall struct {
	SiteID string
	PlotID string
	Mode   domain.ClaimMode
	Buyer  domain.BuyerInfo
	UserID *uuid.UUID
}

type fakeReserveOrBuy struct {
	result *domain.ClaimResult
	err    error
	calls  []claimCall
}

func (f *fakeReserveOrBuy) Execute(ctx context.Context, siteID, plotID string, mode domain.ClaimMode, buyer domain.BuyerInfo, userID *uuid.UUID) (*domain.ClaimResult, error) {
	f.calls = append(f.calls, claimCall{SiteID: siteID, PlotID: plotID, Mode: mode, Buyer: buyer, UserID: userID})
	return f.result, f.err
}

type fakeRegisterInterest struct {
	interest *domain.Interest
	err      error
}

func (f *fakeRegisterInterest) Execute(ctx context.Context, siteID, plotID, fullname, email, phone, message string) (*domain.Interest, error) {
	return f.interest, f.err
}

type fakeAddToCart struct {
	item *domain.CartItem
	err  error
}

func (f *fakeAddToCart) Execute(ctx context.Context, userID uuid.UUID, siteID, plotID string) (*domain.CartItem, error) {
	return f.item, f.err
}

type fakeRemoveFromCart struct{ err error }

func (f *fakeRemoveFromCart) Execute(ctx context.Context, userID uuid.UUID, plotID string) error {
	return f.err
}

type fakeGetCart struct{ items []domain.CartItem }

func (f *fakeGetCart) Execute(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	return f.items, nil
}

type fakeCheckout struct {
	result *domain.ClaimResult
	err    error
}

func (f *fakeCheckout) Execute(ctx context.Context, userID uuid.UUID, buyer domain.BuyerInfo) (*domain.ClaimResult, error) {
	return f.result, f.err
}

type overrideCall struct {
	Role   string
	SiteID string
	PlotID string
}

type fakeSetStatus struct {
	err   error
	calls []overrideCall
}

func (f *fakeSetStatus) Execute(ctx context.Context, role, siteID, plotID string, newStatus domain.PlotStatus) error {
	f.calls = append(f.calls, overrideCall{Role: role, SiteID: siteID, PlotID: plotID})
	return f.err
}

type fakeSetPrice struct{ err error }

func (f *fakeSetPrice) Execute(ctx context.Context, role, siteID, plotID string, newTotal float64) error {
	return f.err
}

type fakeImport struct {
	inserted int
	err      error
}

func (f *fakeImport) Execute(ctx context.Context, role, siteID string, parcels []domain.Parcel) (int, error) {
	return f.inserted, f.err
}

type fixtures struct {
	getParcels *fakeGetParcels
	getDetails *fakeGetDetails
	claim      *fakeReserveOrBuy
	interest   *fakeRegisterInterest
	addCart    *fakeAddToCart
	removeCart *fakeRemoveFromCart
	getCart    *fakeGetCart
	checkout   *fakeCheckout
	setStatus  *fakeSetStatus
	setPrice   *fakeSetPrice
	importUC   *fakeImport
}

func newTestServer(t *testing.T) (*fixtures, http.Handler) {
	t.Helper()
	f := &fixtures{
		getParcels: &fakeGetParcels{},
		getDetails: &fakeGetDetails{parcel: &domain.Parcel{ID: "12"}},
		claim:      &fakeReserveOrBuy{result: &domain.ClaimResult{PlotIDs: []string{"12"}, NewStatus: domain.StatusOnHold, MailSent: true}},
		interest:   &fakeRegisterInterest{interest: &domain.Interest{ID: uuid.New()}},
		addCart:    &fakeAddToCart{item: &domain.CartItem{PlotID: "12"}},
		removeCart: &fakeRemoveFromCart{},
		getCart:    &fakeGetCart{},
		checkout:   &fakeCheckout{result: &domain.ClaimResult{PlotIDs: []string{"12"}, NewStatus: domain.StatusOnHold, MailSent: true}},
		setStatus:  &fakeSetStatus{},
		setPrice:   &fakeSetPrice{},
		importUC:   &fakeImport{inserted: 1},
	}

	logger := contextkeys.LoggerFromContext(context.Background())
	parcelHandler := NewParcelHandler(f.getParcels, f.getDetails, f.claim, f.interest)
	cartHandler := NewCartHandler(f.addCart, f.removeCart, f.getCart, f.checkout)
	adminHandler := NewAdminHandler(f.setStatus, f.setPrice, f.importUC)
	server := NewServer("0", parcelHandler, cartHandler, adminHandler, logger)

	return f, server.httpServer.Handler
}

func doRequest(handler http.Handler, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetParcelsRequiresSite(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodGet, "/api/v1/parcels", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetParcelsPartialViewportIsRejected(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodGet, "/api/v1/parcels?site=trabuom&south=6.6", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetParcelsPassesViewport(t *testing.T) {
	f, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodGet,
		"/api/v1/parcels?site=trabuom&south=6.6&west=-1.7&north=6.7&east=-1.6", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trabuom", f.getParcels.siteID)
	require.NotNil(t, f.getParcels.viewport)
	assert.Equal(t, 6.6, f.getParcels.viewport.MinLat)
	assert.Equal(t, -1.6, f.getParcels.viewport.MaxLng)
}

func TestGetParcelsWithoutViewportPassesNil(t *testing.T) {
	f, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodGet, "/api/v1/parcels?site=trabuom", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, f.getParcels.viewport)
}

func TestGetParcelDetailsNotFound(t *testing.T) {
	f, handler := newTestServer(t)
	f.getDetails.parcel = nil
	f.getDetails.err = &port.ErrPlotNotFound{PlotID: "404"}

	rec := doRequest(handler, http.MethodGet, "/api/v1/parcels/404?site=trabuom", nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReservePassesModeAndAnonymousUser(t *testing.T) {
	f, handler := newTestServer(t)

	body := ClaimRequest{SiteID: "trabuom", Buyer: BuyerRequest{Firstname: "Kofi"}}
	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/reserve", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.claim.calls, 1)
	call := f.claim.calls[0]
	assert.Equal(t, domain.ModeReserve, call.Mode)
	assert.Equal(t, "12", call.PlotID)
	assert.Equal(t, "Kofi", call.Buyer.Firstname)
	assert.Nil(t, call.UserID)
}

func TestBuyForwardsUserID(t *testing.T) {
	f, handler := newTestServer(t)
	userID := uuid.New()

	body := ClaimRequest{SiteID: "trabuom"}
	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/buy", body,
		map[string]string{"X-User-ID": userID.String()})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.claim.calls, 1)
	require.NotNil(t, f.claim.calls[0].UserID)
	assert.Equal(t, userID, *f.claim.calls[0].UserID)
	assert.Equal(t, domain.ModeBuy, f.claim.calls[0].Mode)
}

func TestClaimValidationErrorsReturn422WithFields(t *testing.T) {
	f, handler := newTestServer(t)
	f.claim.result = nil
	f.claim.err = &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "email", Message: "a valid email is required"},
	}}

	body := ClaimRequest{SiteID: "trabuom"}
	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/buy", body, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var payload struct {
		Error  string              `json:"error"`
		Fields []domain.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Fields, 1)
	assert.Equal(t, "email", payload.Fields[0].Field)
}

func TestClaimConflictReturns409(t *testing.T) {
	f, handler := newTestServer(t)
	f.claim.result = nil
	f.claim.err = &port.ErrStatusConflict{PlotID: "12"}

	body := ClaimRequest{SiteID: "trabuom"}
	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/buy", body, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClaimRequiresSiteID(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/buy", ClaimRequest{}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartEndpointsRequireUser(t *testing.T) {
	_, handler := newTestServer(t)

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart/12"},
		{http.MethodPost, "/api/v1/cart/checkout"},
	} {
		rec := doRequest(handler, tc.method, tc.target, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestCartInvalidUserIDHeader(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodGet, "/api/v1/cart", nil,
		map[string]string{"X-User-ID": "not-a-uuid"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRoundTrip(t *testing.T) {
	_, handler := newTestServer(t)
	auth := map[string]string{"X-User-ID": uuid.New().String()}

	rec := doRequest(handler, http.MethodGet, "/api/v1/cart", nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = doRequest(handler, http.MethodPost, "/api/v1/cart",
		AddToCartRequest{SiteID: "trabuom", PlotID: "12"}, auth)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(handler, http.MethodDelete, "/api/v1/cart/12", nil, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(handler, http.MethodPost, "/api/v1/cart/checkout",
		CheckoutRequest{Buyer: BuyerRequest{Firstname: "Kofi"}}, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartAddDuplicateFails(t *testing.T) {
	f, handler := newTestServer(t)
	f.addCart.item = nil
	f.addCart.err = fmt.Errorf("plot 12 is already in the cart")

	rec := doRequest(handler, http.MethodPost, "/api/v1/cart",
		AddToCartRequest{SiteID: "trabuom", PlotID: "12"},
		map[string]string{"X-User-ID": uuid.New().String()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminSetStatusForwardsRole(t *testing.T) {
	f, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodPatch, "/api/v1/admin/parcels/12/status",
		SetStatusRequest{SiteID: "trabuom", Status: "Sold"},
		map[string]string{"X-User-Role": "admin"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, f.setStatus.calls, 1)
	assert.Equal(t, "admin", f.setStatus.calls[0].Role)
}

func TestAdminSetStatusDefaultRoleGets403(t *testing.T) {
	f, handler := newTestServer(t)
	f.setStatus.err = fmt.Errorf("role %q is not allowed to override plot status", "user")

	rec := doRequest(handler, http.MethodPatch, "/api/v1/admin/parcels/12/status",
		SetStatusRequest{SiteID: "trabuom", Status: "Sold"}, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminImport(t *testing.T) {
	_, handler := newTestServer(t)

	body := ImportRequest{
		SiteID: "trabuom",
		Parcels: []ImportParcelRequest{
			{
				ID:         "12",
				Geometry:   [][2]float64{{-1.62, 6.66}, {-1.61, 6.66}, {-1.61, 6.67}},
				PlotNumber: "TB-12",
				Total:      50000,
			},
		},
	}
	rec := doRequest(handler, http.MethodPost, "/api/v1/admin/parcels/import", body,
		map[string]string{"X-User-Role": "sysadmin"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Inserted)
	assert.Equal(t, 0, resp.Skipped)
}

func TestInterestEndpoint(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doRequest(handler, http.MethodPost, "/api/v1/parcels/12/interest",
		InterestRequest{SiteID: "trabuom", Fullname: "Ama Owusu", Email: "ama@example.com"}, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
