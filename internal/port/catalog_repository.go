package port

import (
	"context"

	"github.com/mihirp/food-order/internal/core/domain"
)

// CatalogRepository is the read boundary to item and seller records. Item and
// seller write paths live outside this service.
type CatalogRepository interface {
	GetItem(ctx context.Context, itemID string) (domain.Item, error)
	GetSeller(ctx context.Context, sellerID string) (domain.Seller, error)

	// GetSellerWithItems returns the seller plus its menu.
	GetSellerWithItems(ctx context.Context, sellerID string) (domain.Seller, error)

	// ListVerifiedSellers lists sellers whose account passed verification,
	// newest first.
	ListVerifiedSellers(ctx context.Context) ([]domain.Seller, error)
}
