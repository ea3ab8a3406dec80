package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
)

// CheckoutCartUseCasePort - оформление всех участков из корзины пользователя.
type CheckoutCartUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, buyer domain.BuyerInfo) (*domain.ClaimResult, error)
}
