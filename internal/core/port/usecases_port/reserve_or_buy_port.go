package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
)

// ReserveOrBuyUseCasePort - стандартный workflow покупателя.
// userID может быть nil (анонимная заявка без корзины).
type ReserveOrBuyUseCasePort interface {
	Execute(ctx context.Context, siteID, plotID string, mode domain.ClaimMode, buyer domain.BuyerInfo, userID *uuid.UUID) (*domain.ClaimResult, error)
}
