package cartmemory

import (
	"context"
	"sync"
	"testing"

	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	// noop-логгер из пустого контекста
	return NewStore(contextkeys.LoggerFromContext(context.Background()))
}

func item(plotID string) domain.CartItem {
	return domain.CartItem{PlotID: plotID, SiteID: "trabuom", PlotNumber: "TB-" + plotID}
}

func TestAddAndContains(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	require.True(t, store.Add(userID, item("12")))
	assert.True(t, store.Contains(userID, "12"))
	assert.False(t, store.Contains(userID, "13"))
}

func TestAddRejectsDuplicatePlotID(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	require.True(t, store.Add(userID, item("12")))

	// Дубликат определяется только по PlotID: элемент с другого сайта
	// с тем же id тоже отклоняется.
	other := item("12")
	other.SiteID = "nthc"
	assert.False(t, store.Add(userID, other))
	assert.Len(t, store.Items(userID), 1)
}

func TestAddIsAtomicUnderConcurrency(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	const goroutines = 32
	added := make(chan bool, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added <- store.Add(userID, item("12"))
		}()
	}
	wg.Wait()
	close(added)

	successes := 0
	for ok := range added {
		if ok {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Len(t, store.Items(userID), 1)
}

func TestRemove(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	store.Add(userID, item("12"))
	store.Add(userID, item("13"))

	assert.True(t, store.Remove(userID, "12"))
	assert.False(t, store.Remove(userID, "12"))
	assert.False(t, store.Contains(userID, "12"))
	assert.True(t, store.Contains(userID, "13"))
}

func TestPerUserIsolation(t *testing.T) {
	store := newTestStore()
	alice := uuid.New()
	bob := uuid.New()

	store.Add(alice, item("12"))

	assert.False(t, store.Contains(bob, "12"))
	assert.Empty(t, store.Items(bob))

	// Один и тот же участок у разных пользователей - не дубликат.
	assert.True(t, store.Add(bob, item("12")))
}

func TestClear(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	store.Add(userID, item("12"))
	store.Add(userID, item("13"))
	store.Clear(userID)

	assert.Empty(t, store.Items(userID))
}

func TestItemsReturnsCopy(t *testing.T) {
	store := newTestStore()
	userID := uuid.New()

	store.Add(userID, item("12"))

	items := store.Items(userID)
	items[0].PlotID = "mutated"

	assert.True(t, store.Contains(userID, "12"))
	assert.False(t, store.Contains(userID, "mutated"))
}
