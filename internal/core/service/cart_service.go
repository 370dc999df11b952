package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStaleCartReference = errors.New("cart references an item that no longer exists")
)

type CartService struct {
	carts   port.CartRepository
	catalog port.CatalogRepository
	locks   *UserLocks
}

func NewCartService(carts port.CartRepository, catalog port.CatalogRepository, locks *UserLocks) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		locks:   locks,
	}
}

// AddItem verifies the item exists, then inserts or increments the cart line.
func (s *CartService) AddItem(ctx context.Context, userID, itemID string) error {
	if _, err := s.catalog.GetItem(ctx, itemID); err != nil {
		return fmt.Errorf("resolve item %s: %w", itemID, err)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.carts.AddItem(ctx, userID, itemID)
}

// Decrement lowers the line quantity by 1, dropping the line at zero. An
// absent line is a no-op, not an error.
func (s *CartService) Decrement(ctx context.Context, userID, itemID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.carts.Decrement(ctx, userID, itemID)
}

// Remove drops the line unconditionally.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.carts.Remove(ctx, userID, itemID)
}

// Get returns the cart joined with current catalog items and the summed
// price. A line whose item vanished fails the read; the caller sees the same
// stale-reference failure checkout would report.
func (s *CartService) Get(ctx context.Context, userID string) (domain.ResolvedCart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return domain.ResolvedCart{}, err
	}

	resolved := domain.ResolvedCart{
		Lines:      make([]domain.ResolvedCartLine, 0, len(cart.Lines)),
		TotalPrice: decimal.Zero,
	}

	for _, line := range cart.Lines {
		item, err := s.catalog.GetItem(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, port.ErrNotFound) {
				return domain.ResolvedCart{}, fmt.Errorf("item %s: %w", line.ItemID, ErrStaleCartReference)
			}
			return domain.ResolvedCart{}, fmt.Errorf("resolve item %s: %w", line.ItemID, err)
		}

		resolved.Lines = append(resolved.Lines, domain.ResolvedCartLine{
			Item:     item,
			Quantity: line.Quantity,
		})
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resolved.TotalPrice = resolved.TotalPrice.Add(lineTotal)
	}

	return resolved, nil
}
