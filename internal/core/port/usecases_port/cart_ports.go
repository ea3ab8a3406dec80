package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
)

type AddToCartUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, siteID, plotID string) (*domain.CartItem, error)
}

type RemoveFromCartUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID, plotID string) error
}

type GetCartUseCasePort interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
}
