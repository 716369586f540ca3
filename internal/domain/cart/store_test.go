package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	mu      sync.Mutex
	carts   map[string][]CartItem
	failing bool
	saves   int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{carts: make(map[string][]CartItem)}
}

func (m *memoryStorage) Load(_ context.Context, sessionID string) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("storage down")
	}
	return append([]CartItem(nil), m.carts[sessionID]...), nil
}

func (m *memoryStorage) Save(_ context.Context, sessionID string, items []CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("storage down")
	}
	m.saves++
	m.carts[sessionID] = append([]CartItem(nil), items...)
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("storage down")
	}
	delete(m.carts, sessionID)
	return nil
}

func TestStore_DispatchPersistsAndNotifies(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore("sess-1", storage, logger.Discard())
	ctx := context.Background()

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	_, err := store.Dispatch(ctx, AddItem{Item: productA()})
	require.NoError(t, err)
	snap, err := store.Dispatch(ctx, AddItem{Item: productA()})
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalItems)
	assert.True(t, decimal.NewFromInt(1000).Equal(snap.TotalPrice))
	require.Len(t, storage.carts["sess-1"], 1)
	assert.Equal(t, 2, storage.carts["sess-1"][0].Quantity)

	require.Len(t, seen, 2)
	assert.Equal(t, "add_item", seen[1].Command)

	unsubscribe()
	_, err = store.Dispatch(ctx, RemoveItem{ProductID: 1})
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}

func TestStore_RejectedCommandIsNotPersistedOrBroadcast(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore("sess-1", storage, logger.Discard())
	ctx := context.Background()

	_, err := store.Dispatch(ctx, AddItem{Item: productA()})
	require.NoError(t, err)

	notified := 0
	store.Subscribe(func(Snapshot) { notified++ })

	snap, err := store.Dispatch(ctx, UpdateQuantity{ProductID: 1, Quantity: 10})
	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.Equal(t, 1, snap.TotalItems)
	assert.Equal(t, 0, notified)
	assert.Equal(t, 1, storage.saves)
}

func TestStore_PersistenceFailureKeepsMemoryState(t *testing.T) {
	storage := newMemoryStorage()
	storage.failing = true
	store := NewStore("sess-1", storage, logger.Discard())

	snap, err := store.Dispatch(context.Background(), AddItem{Item: productA()})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalItems)
	assert.Equal(t, 1, store.Snapshot().TotalItems)
}

func TestStore_ClearErasesPersistedState(t *testing.T) {
	storage := newMemoryStorage()
	store := NewStore("sess-1", storage, logger.Discard())
	ctx := context.Background()

	_, err := store.Dispatch(ctx, AddItem{Item: productA()})
	require.NoError(t, err)
	_, err = store.Dispatch(ctx, Clear{})
	require.NoError(t, err)

	_, ok := storage.carts["sess-1"]
	assert.False(t, ok)
	assert.Empty(t, store.Snapshot().Items)
}

func TestStore_Rehydrate(t *testing.T) {
	storage := newMemoryStorage()
	storage.carts["sess-1"] = []CartItem{{ProductID: 1, Name: "A", Price: decimal.NewFromInt(500), Quantity: 2, Stock: 3}}

	store := NewStore("sess-1", storage, logger.Discard())
	require.NoError(t, store.Rehydrate(context.Background()))
	assert.Equal(t, 2, store.Snapshot().TotalItems)

	storage.failing = true
	assert.Error(t, NewStore("sess-2", storage, logger.Discard()).Rehydrate(context.Background()))
}

func TestStore_ConcurrentAddsRespectStock(t *testing.T) {
	store := NewStore("sess-1", newMemoryStorage(), logger.Discard())
	item := productA()
	item.Stock = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Dispatch(context.Background(), AddItem{Item: item}); err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.Snapshot().TotalItems)
	assert.Equal(t, 15, rejected)
}

func TestStore_Close(t *testing.T) {
	store := NewStore("sess-1", newMemoryStorage(), logger.Discard())
	store.Close()

	_, err := store.Dispatch(context.Background(), AddItem{Item: productA()})
	assert.ErrorIs(t, err, errStoreClosed)
}
