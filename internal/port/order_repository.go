package port

import (
	"context"

	"github.com/mihirp/food-order/internal/core/domain"
)

type OrderRepository interface {
	// CreateOrders persists every draft of one checkout in a single
	// transaction with status Placed. Either all orders commit or none do.
	CreateOrders(ctx context.Context, drafts []domain.OrderDraft) ([]domain.Order, error)

	// FindByID retrieves one order.
	FindByID(ctx context.Context, orderID string) (domain.Order, error)

	// FindByBuyer lists a buyer's orders, newest first.
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)

	// FindBySeller lists a seller's orders, newest first.
	FindBySeller(ctx context.Context, sellerID string) ([]domain.Order, error)

	// UpdateStatus writes a new status and returns the updated order.
	// Transition validation happens in the service layer before this call.
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}
