package usecases_port

import (
	"context"
	"plot-service/internal/core/domain"
)

type RegisterInterestUseCasePort interface {
	Execute(ctx context.Context, siteID, plotID, fullname, email, phone, message string) (*domain.Interest, error)
}
