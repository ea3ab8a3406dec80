package port

import (
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
)

// CartStorePort - контракт сессионной корзины пользователя.
// Содержимое живет только в памяти процесса и не переживает рестарт.
type CartStorePort interface {
	// Add добавляет элемент, если участка с таким PlotID еще нет в корзине.
	// Проверка дубликата и вставка атомарны.
	Add(userID uuid.UUID, item domain.CartItem) bool
	Contains(userID uuid.UUID, plotID string) bool
	Remove(userID uuid.UUID, plotID string) bool
	Items(userID uuid.UUID) []domain.CartItem
	Clear(userID uuid.UUID)
}
