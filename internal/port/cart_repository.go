package port

import (
	"context"

	"github.com/mihirp/food-order/internal/core/domain"
)

type CartRepository interface {
	// Get returns the user's cart. A user with no stored lines gets an
	// empty cart, not an error.
	Get(ctx context.Context, userID string) (domain.Cart, error)

	// AddItem inserts the line with quantity 1 or increments an existing
	// line by 1, atomically.
	AddItem(ctx context.Context, userID, itemID string) error

	// Decrement lowers the line quantity by 1 and removes the line when it
	// would reach zero. Absent lines are a no-op.
	Decrement(ctx context.Context, userID, itemID string) error

	// Remove drops the line regardless of quantity.
	Remove(ctx context.Context, userID, itemID string) error

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error
}
