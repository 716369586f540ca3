package cart

import (
	"context"
	"testing"
	"time"

	"github.com/mrokonuzzaan040/tech-pinik/internal/config"
	"github.com/mrokonuzzaan040/tech-pinik/internal/domain/product"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/logger"
	"github.com/mrokonuzzaan040/tech-pinik/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog map[uint]*product.Product

func (f fakeCatalog) LookupProduct(_ context.Context, id uint) (*product.Product, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, product.ErrProductNotFound
}

func testCartConfig() *config.Config {
	return &config.Config{Cart: config.CartConfig{SessionTTL: time.Hour, JanitorPeriod: time.Minute}}
}

func newTestService(t *testing.T) (*Service, *memoryStorage, *metrics.Metrics) {
	storage := newMemoryStorage()
	catalog := fakeCatalog{
		1: {ID: 1, Name: "A", Price: decimal.NewFromInt(500), Stock: 3, Images: []string{"a.png", "a2.png"}},
		2: {ID: 2, Name: "B", Price: decimal.NewFromInt(120), Stock: 0},
	}
	m := metrics.New()
	return NewService(storage, catalog, testCartConfig(), logger.Discard(), m), storage, m
}

func TestService_AddItemUsesCatalog(t *testing.T) {
	svc, storage, m := newTestService(t)
	ctx := context.Background()

	snap, err := svc.AddItem(ctx, "sess-1", 1)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "a.png", snap.Items[0].Image)
	assert.Equal(t, 3, snap.Items[0].Stock)
	assert.Len(t, storage.carts["sess-1"], 1)

	_, err = svc.AddItem(ctx, "sess-1", 99)
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = svc.AddItem(ctx, "sess-1", 2)
	assert.ErrorIs(t, err, ErrStockExceeded)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add_item")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockRejections))
}

func TestService_FullSessionFlow(t *testing.T) {
	svc, storage, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.AddItem(ctx, "sess-1", 1)
		require.NoError(t, err)
	}
	_, err := svc.AddItem(ctx, "sess-1", 1)
	assert.ErrorIs(t, err, ErrStockExceeded)

	snap, err := svc.UpdateQuantity(ctx, "sess-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.TotalItems)
	assert.True(t, decimal.NewFromInt(1000).Equal(snap.TotalPrice))

	snap, err = svc.RemoveItem(ctx, "sess-1", 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)

	_, err = svc.AddItem(ctx, "sess-1", 1)
	require.NoError(t, err)
	_, err = svc.Clear(ctx, "sess-1")
	require.NoError(t, err)
	_, persisted := storage.carts["sess-1"]
	assert.False(t, persisted)
}

func TestService_SessionsAreIsolatedAndRehydrated(t *testing.T) {
	svc, storage, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", 1)
	require.NoError(t, err)

	other, err := svc.GetCart(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
	assert.Equal(t, 2, svc.ActiveSessions())

	svc.EndSession("sess-1")
	assert.Equal(t, 1, svc.ActiveSessions())
	assert.Len(t, storage.carts["sess-1"], 1)

	again, err := svc.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.TotalItems)
}

func TestService_EvictIdle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.EvictIdle(time.Now()))
	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(2*time.Hour)))
	assert.Equal(t, 0, svc.ActiveSessions())
}

func TestService_RequiresSessionID(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetCart(context.Background(), "")
	assert.Error(t, err)
}

func TestService_RunStopsWithContext(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

// gatedStorage blocks Load for one session until release is closed
type gatedStorage struct {
	*memoryStorage
	gated   string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Load(ctx context.Context, sessionID string) ([]CartItem, error) {
	if sessionID == g.gated {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.memoryStorage.Load(ctx, sessionID)
}

func TestService_SlowRehydrateDoesNotBlockOtherSessions(t *testing.T) {
	storage := &gatedStorage{
		memoryStorage: newMemoryStorage(),
		gated:         "slow",
		entered:       make(chan struct{}, 2),
		release:       make(chan struct{}),
	}
	svc := NewService(storage, fakeCatalog{}, testCartConfig(), logger.Discard(), nil)
	ctx := context.Background()

	opened := make(chan *Store, 2)
	for i := 0; i < 2; i++ {
		go func() {
			store, err := svc.Open(ctx, "slow")
			assert.NoError(t, err)
			opened <- store
		}()
	}
	<-storage.entered
	<-storage.entered

	served := make(chan error, 1)
	go func() {
		_, err := svc.GetCart(ctx, "fast")
		served <- err
	}()

	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second session waited on another session's storage read")
	}
	assert.Equal(t, 1, svc.ActiveSessions())

	close(storage.release)
	first, second := <-opened, <-opened
	assert.Same(t, first, second, "concurrent opens of one session must share a store")
	assert.Equal(t, 2, svc.ActiveSessions())
}
