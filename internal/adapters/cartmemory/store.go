package cartmemory

import (
	"sync"

	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"

	"github.com/google/uuid"
)

// Store - сессионная корзина в памяти процесса: userID -> элементы.
// Явный контейнер состояния вместо глобального синглтона, чтобы корзину
// можно было тестировать изолированно.
//
// Уникальность элементов - только по PlotID (без SiteID), как в источнике.
type Store struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]domain.CartItem

	logger port.LoggerPort
}

// NewStore - конструктор.
func NewStore(baseLogger port.LoggerPort) *Store {
	return &Store{
		byUser: make(map[uuid.UUID][]domain.CartItem),
		logger: baseLogger.WithFields(port.Fields{"component": "CartStore"}),
	}
}

// Add добавляет элемент, если участка с таким PlotID еще нет.
// Проверка и вставка выполняются под одним локом - добавление атомарно.
func (s *Store) Add(userID uuid.UUID, item domain.CartItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byUser[userID] {
		if existing.PlotID == item.PlotID {
			s.logger.Debug("Plot already in cart, skipping.", port.Fields{
				"user_id": userID, "plot_id": item.PlotID,
			})
			return false
		}
	}

	s.byUser[userID] = append(s.byUser[userID], item)
	s.logger.Debug("Plot added to cart.", port.Fields{
		"user_id": userID, "plot_id": item.PlotID, "cart_size": len(s.byUser[userID]),
	})
	return true
}

func (s *Store) Contains(userID uuid.UUID, plotID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.byUser[userID] {
		if item.PlotID == plotID {
			return true
		}
	}
	return false
}

// Remove удаляет элемент; возвращает false, если его не было.
func (s *Store) Remove(userID uuid.UUID, plotID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.byUser[userID]
	for i, item := range items {
		if item.PlotID == plotID {
			s.byUser[userID] = append(items[:i], items[i+1:]...)
			if len(s.byUser[userID]) == 0 {
				delete(s.byUser, userID)
			}
			return true
		}
	}
	return false
}

// Items возвращает копию содержимого корзины пользователя.
func (s *Store) Items(userID uuid.UUID) []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.byUser[userID]
	result := make([]domain.CartItem, len(items))
	copy(result, items)
	return result
}

func (s *Store) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byUser, userID)
}
