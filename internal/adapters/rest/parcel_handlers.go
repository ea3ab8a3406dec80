package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
	"plot-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParcelHandler - обработчики публичной части API: карта, детали участка,
// reserve/buy, форма интереса.
type ParcelHandler struct {
	getParcelsUC       usecases_port.GetParcelsUseCasePort
	getDetailsUC       usecases_port.GetParcelDetailsUseCasePort
	reserveOrBuyUC     usecases_port.ReserveOrBuyUseCasePort
	registerInterestUC usecases_port.RegisterInterestUseCasePort
}

// NewParcelHandler - конструктор.
func NewParcelHandler(
	getParcelsUC usecases_port.GetParcelsUseCasePort,
	getDetailsUC usecases_port.GetParcelDetailsUseCasePort,
	reserveOrBuyUC usecases_port.ReserveOrBuyUseCasePort,
	registerInterestUC usecases_port.RegisterInterestUseCasePort,
) *ParcelHandler {
	return &ParcelHandler{
		getParcelsUC:       getParcelsUC,
		getDetailsUC:       getDetailsUC,
		reserveOrBuyUC:     reserveOrBuyUC,
		registerInterestUC: registerInterestUC,
	}
}

// GetParcels обрабатывает GET /api/v1/parcels?site=&south=&west=&north=&east=
func (h *ParcelHandler) GetParcels(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetParcels"})

	siteID := r.URL.Query().Get("site")
	if siteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site query parameter is required")
		return
	}

	viewport, err := ParseViewport(r)
	if err != nil {
		logger.Warn("Invalid viewport parameters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid viewport parameters")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"site_id": siteID})
	handlerLogger.Info("Processing request to list parcels", nil)

	parcels, err := h.getParcelsUC.Execute(r.Context(), siteID, viewport)
	if err != nil {
		handlerLogger.Error("Get parcels use case failed", err, nil)
		WriteJSONError(w, statusForError(err), "Failed to retrieve parcels")
		return
	}

	handlerLogger.Info("Successfully retrieved parcels", port.Fields{"count": len(parcels)})
	RespondWithJSON(w, http.StatusOK, parcels)
}

// GetParcelDetails обрабатывает GET /api/v1/parcels/{parcelID}?site=
func (h *ParcelHandler) GetParcelDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetParcelDetails"})

	siteID := r.URL.Query().Get("site")
	plotID := chi.URLParam(r, "parcelID")
	if siteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site query parameter is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"site_id": siteID, "plot_id": plotID})
	handlerLogger.Info("Processing request to get parcel details", nil)

	parcel, err := h.getDetailsUC.Execute(r.Context(), siteID, plotID)
	if err != nil {
		handlerLogger.Error("Get parcel details use case failed", err, nil)
		WriteJSONError(w, statusForError(err), "Failed to retrieve parcel")
		return
	}

	RespondWithJSON(w, http.StatusOK, parcel)
}

// Reserve обрабатывает POST /api/v1/parcels/{parcelID}/reserve
func (h *ParcelHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	h.claim(w, r, domain.ModeReserve)
}

// Buy обрабатывает POST /api/v1/parcels/{parcelID}/buy
func (h *ParcelHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.claim(w, r, domain.ModeBuy)
}

func (h *ParcelHandler) claim(w http.ResponseWriter, r *http.Request, mode domain.ClaimMode) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Claim", "mode": mode})

	plotID := chi.URLParam(r, "parcelID")

	var reqDTO ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode claim request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.SiteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	// Анонимный reserve/buy разрешен: userID нужен только для чистки корзины.
	var userID *uuid.UUID
	if id, ok := userIDFromContext(r.Context()); ok {
		userID = &id
	}

	handlerLogger := logger.WithFields(port.Fields{"site_id": reqDTO.SiteID, "plot_id": plotID})
	handlerLogger.Info("Processing claim request", nil)

	result, err := h.reserveOrBuyUC.Execute(r.Context(), reqDTO.SiteID, plotID, mode, reqDTO.Buyer.toDomain(), userID)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlerLogger.Warn("Claim rejected by buyer validation", nil)
			RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "Buyer validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		handlerLogger.Error("Claim use case failed", err, nil)
		WriteJSONError(w, statusForError(err), err.Error())
		return
	}

	handlerLogger.Info("Claim processed", port.Fields{"mail_sent": result.MailSent})
	RespondWithJSON(w, http.StatusOK, ClaimResponse{
		PlotIDs:   result.PlotIDs,
		NewStatus: string(result.NewStatus),
		MailSent:  result.MailSent,
		MailError: result.MailError,
	})
}

// RegisterInterest обрабатывает POST /api/v1/parcels/{parcelID}/interest
func (h *ParcelHandler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RegisterInterest"})

	plotID := chi.URLParam(r, "parcelID")

	var reqDTO InterestRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode interest request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"site_id": reqDTO.SiteID, "plot_id": plotID})
	handlerLogger.Info("Processing interest registration", nil)

	interest, err := h.registerInterestUC.Execute(r.Context(), reqDTO.SiteID, plotID,
		reqDTO.Fullname, reqDTO.Email, reqDTO.Phone, reqDTO.Message)
	if err != nil {
		handlerLogger.Error("Register interest use case failed", err, nil)
		WriteJSONError(w, statusForError(err), err.Error())
		return
	}

	RespondWithJSON(w, http.StatusCreated, interest)
}

// statusForError маппит доменные ошибки на HTTP-статусы.
func statusForError(err error) int {
	var notFound *port.ErrPlotNotFound
	var conflict *port.ErrStatusConflict
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
