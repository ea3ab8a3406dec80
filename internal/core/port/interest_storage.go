package port

import (
	"context"
	"plot-service/internal/core/domain"
)

// InterestStoragePort - контракт хранилища записей интереса к участкам.
type InterestStoragePort interface {
	Insert(ctx context.Context, interest *domain.Interest) error
}
