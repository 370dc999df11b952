package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

func newCartFixture() (*CartService, *mockCartRepo, *mockCatalog) {
	carts := newMockCartRepo()
	catalog := newMockCatalog()
	catalog.addItem(domain.Item{ID: "item-1", SellerID: "seller-a", Title: "Ramen", Price: decimal.NewFromInt(11)})
	catalog.addItem(domain.Item{ID: "item-2", SellerID: "seller-a", Title: "Gyoza", Price: decimal.RequireFromString("4.50")})

	return NewCartService(carts, catalog, NewUserLocks()), carts, catalog
}

func TestAddItem_UnknownItem(t *testing.T) {
	svc, carts, _ := newCartFixture()

	err := svc.AddItem(context.Background(), "user-1", "no-such-item")
	require.ErrorIs(t, err, port.ErrNotFound)
	assert.Empty(t, carts.snapshot("user-1"))
}

func TestAddItem_ConcurrentIncrementsSerialized(t *testing.T) {
	svc, carts, _ := newCartFixture()

	// The mock repo's AddItem is a non-atomic read-modify-write; without
	// the per-user lock one of these increments would be lost.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.AddItem(context.Background(), "user-1", "item-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines := carts.snapshot("user-1")
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestDecrement_AbsentLineIsNoOp(t *testing.T) {
	svc, carts, _ := newCartFixture()
	carts.seed("user-1", domain.CartLine{ItemID: "item-1", Quantity: 1})

	err := svc.Decrement(context.Background(), "user-1", "item-2")
	require.NoError(t, err)
	assert.Len(t, carts.snapshot("user-1"), 1)
}

func TestDecrement_RemovesLineAtZero(t *testing.T) {
	svc, carts, _ := newCartFixture()
	carts.seed("user-1", domain.CartLine{ItemID: "item-1", Quantity: 1})

	err := svc.Decrement(context.Background(), "user-1", "item-1")
	require.NoError(t, err)
	assert.Empty(t, carts.snapshot("user-1"), "zero-quantity lines are removed, not retained")
}

func TestGet_PricesCart(t *testing.T) {
	svc, carts, _ := newCartFixture()
	carts.seed("user-1",
		domain.CartLine{ItemID: "item-1", Quantity: 2},
		domain.CartLine{ItemID: "item-2", Quantity: 3},
	)

	cart, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)

	// 2*11 + 3*4.50
	assert.True(t, cart.TotalPrice.Equal(decimal.RequireFromString("35.5")),
		"got total %s", cart.TotalPrice)
}

func TestGet_StaleReference(t *testing.T) {
	svc, carts, catalog := newCartFixture()
	carts.seed("user-1", domain.CartLine{ItemID: "item-1", Quantity: 1})
	catalog.removeItem("item-1")

	_, err := svc.Get(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrStaleCartReference)
}
