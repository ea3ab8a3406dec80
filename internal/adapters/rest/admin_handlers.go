package rest

import (
	"encoding/json"
	"net/http"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
	"plot-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// AdminHandler - обработчики админской части API: override статуса и цены,
// пакетный импорт данных геодезии. Проверка роли живет в use case,
// обработчик только достает её из контекста.
type AdminHandler struct {
	setStatusUC usecases_port.AdminSetStatusUseCasePort
	setPriceUC  usecases_port.AdminSetPriceUseCasePort
	importUC    usecases_port.ImportParcelsUseCasePort
}

// NewAdminHandler - конструктор.
func NewAdminHandler(
	setStatusUC usecases_port.AdminSetStatusUseCasePort,
	setPriceUC usecases_port.AdminSetPriceUseCasePort,
	importUC usecases_port.ImportParcelsUseCasePort,
) *AdminHandler {
	return &AdminHandler{
		setStatusUC: setStatusUC,
		setPriceUC:  setPriceUC,
		importUC:    importUC,
	}
}

// SetStatus обрабатывает PATCH /api/v1/admin/parcels/{parcelID}/status
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminSetStatus"})

	plotID := chi.URLParam(r, "parcelID")
	role := roleFromContext(r.Context())

	var reqDTO SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode set-status request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.SiteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"site_id":    reqDTO.SiteID,
		"plot_id":    plotID,
		"new_status": reqDTO.Status,
	})
	handlerLogger.Info("Processing admin status override", nil)

	err := h.setStatusUC.Execute(r.Context(), role, reqDTO.SiteID, plotID, domain.PlotStatus(reqDTO.Status))
	if err != nil {
		handlerLogger.Error("Admin set status use case failed", err, nil)
		WriteJSONError(w, adminStatusForError(err, role), err.Error())
		return
	}

	handlerLogger.Info("Plot status overridden", nil)
	w.WriteHeader(http.StatusNoContent)
}

// SetPrice обрабатывает PATCH /api/v1/admin/parcels/{parcelID}/price
func (h *AdminHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminSetPrice"})

	plotID := chi.URLParam(r, "parcelID")
	role := roleFromContext(r.Context())

	var reqDTO SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode set-price request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.SiteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"site_id":   reqDTO.SiteID,
		"plot_id":   plotID,
		"new_total": reqDTO.Total,
	})
	handlerLogger.Info("Processing admin price override", nil)

	err := h.setPriceUC.Execute(r.Context(), role, reqDTO.SiteID, plotID, reqDTO.Total)
	if err != nil {
		handlerLogger.Error("Admin set price use case failed", err, nil)
		WriteJSONError(w, adminStatusForError(err, role), err.Error())
		return
	}

	handlerLogger.Info("Plot price updated", nil)
	w.WriteHeader(http.StatusNoContent)
}

// Import обрабатывает POST /api/v1/admin/parcels/import
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdminImport"})

	role := roleFromContext(r.Context())

	var reqDTO ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode import request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.SiteID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	parcels := make([]domain.Parcel, len(reqDTO.Parcels))
	for i, p := range reqDTO.Parcels {
		ring := make(domain.Ring, len(p.Geometry))
		for j, pt := range p.Geometry {
			ring[j] = domain.Point{Lng: pt[0], Lat: pt[1]}
		}
		parcels[i] = domain.Parcel{
			ID:       p.ID,
			SiteID:   reqDTO.SiteID,
			Geometry: ring,
			Properties: domain.PlotProperties{
				PlotNumber: p.PlotNumber,
				StreetName: p.StreetName,
				AreaAcres:  p.AreaAcres,
			},
			Status:          domain.PlotStatus(p.Status),
			PlotTotalAmount: p.Total,
			PaidAmount:      p.Paid,
			RemainingAmount: p.Total - p.Paid,
		}
	}

	handlerLogger := logger.WithFields(port.Fields{"site_id": reqDTO.SiteID, "count": len(parcels)})
	handlerLogger.Info("Processing parcel import", nil)

	inserted, err := h.importUC.Execute(r.Context(), role, reqDTO.SiteID, parcels)
	if err != nil {
		handlerLogger.Error("Import parcels use case failed", err, nil)
		WriteJSONError(w, adminStatusForError(err, role), err.Error())
		return
	}

	handlerLogger.Info("Parcels imported", port.Fields{"inserted": inserted})
	RespondWithJSON(w, http.StatusOK, ImportResponse{
		Inserted: inserted,
		Skipped:  len(parcels) - inserted,
	})
}

// adminStatusForError - как statusForError, но непривилегированная роль
// получает 403 вместо 500.
func adminStatusForError(err error, role string) int {
	if !domain.IsPrivileged(role) {
		return http.StatusForbidden
	}
	return statusForError(err)
}
