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
)

// CartHandler - обработчики приватной части API: корзина и checkout.
type CartHandler struct {
	addUC      usecases_port.AddToCartUseCasePort
	removeUC   usecases_port.RemoveFromCartUseCasePort
	getUC      usecases_port.GetCartUseCasePort
	checkoutUC usecases_port.CheckoutCartUseCasePort
}

// NewCartHandler - конструктор.
func NewCartHandler(
	addUC usecases_port.AddToCartUseCasePort,
	removeUC usecases_port.RemoveFromCartUseCasePort,
	getUC usecases_port.GetCartUseCasePort,
	checkoutUC usecases_port.CheckoutCartUseCasePort,
) *CartHandler {
	return &CartHandler{
		addUC:      addUC,
		removeUC:   removeUC,
		getUC:      getUC,
		checkoutUC: checkoutUC,
	}
}

// GetCart обрабатывает GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetCart"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	items, err := h.getUC.Execute(r.Context(), userID)
	if err != nil {
		logger.Error("Get cart use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}

	if items == nil {
		items = []domain.CartItem{}
	}
	RespondWithJSON(w, http.StatusOK, items)
}

// AddToCart обрабатывает POST /api/v1/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToCart"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var reqDTO AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode add-to-cart request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.SiteID == "" || reqDTO.PlotID == "" {
		WriteJSONError(w, http.StatusBadRequest, "site_id and plot_id are required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{
		"user_id": userID,
		"site_id": reqDTO.SiteID,
		"plot_id": reqDTO.PlotID,
	})
	handlerLogger.Info("Processing request to add plot to cart", nil)

	item, err := h.addUC.Execute(r.Context(), userID, reqDTO.SiteID, reqDTO.PlotID)
	if err != nil {
		handlerLogger.Error("Add to cart use case failed", err, nil)
		WriteJSONError(w, statusForError(err), err.Error())
		return
	}

	handlerLogger.Info("Successfully added plot to cart", nil)
	RespondWithJSON(w, http.StatusCreated, item)
}

// RemoveFromCart обрабатывает DELETE /api/v1/cart/{plotID}
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromCart"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	plotID := chi.URLParam(r, "plotID")

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID, "plot_id": plotID})
	handlerLogger.Info("Processing request to remove plot from cart", nil)

	if err := h.removeUC.Execute(r.Context(), userID, plotID); err != nil {
		handlerLogger.Warn("Remove from cart failed", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	handlerLogger.Info("Successfully removed plot from cart", nil)
	w.WriteHeader(http.StatusNoContent)
}

// Checkout обрабатывает POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Checkout"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var reqDTO CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode checkout request body", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"user_id": userID})
	handlerLogger.Info("Processing cart checkout", nil)

	result, err := h.checkoutUC.Execute(r.Context(), userID, reqDTO.Buyer.toDomain())
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			handlerLogger.Warn("Checkout rejected by buyer validation", nil)
			RespondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "Buyer validation failed",
				"fields": validationErr.Fields,
			})
			return
		}
		handlerLogger.Error("Checkout use case failed", err, nil)
		WriteJSONError(w, statusForError(err), err.Error())
		return
	}

	handlerLogger.Info("Checkout processed", port.Fields{
		"claimed":   len(result.PlotIDs),
		"mail_sent": result.MailSent,
	})
	RespondWithJSON(w, http.StatusOK, ClaimResponse{
		PlotIDs:   result.PlotIDs,
		NewStatus: string(result.NewStatus),
		MailSent:  result.MailSent,
		MailError: result.MailError,
	})
}
