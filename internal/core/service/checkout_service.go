package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

const eventOrders = "orders"

// CheckoutService turns one user's cart into one persisted order per seller
// and pushes a "create" event to each seller that is connected.
type CheckoutService struct {
	carts    port.CartRepository
	orders   port.OrderRepository
	catalog  port.CatalogRepository
	users    port.UserRepository
	notifier port.Notifier
	locks    *UserLocks
	log      *slog.Logger

	maxResolve int
}

func NewCheckoutService(
	carts port.CartRepository,
	orders port.OrderRepository,
	catalog port.CatalogRepository,
	users port.UserRepository,
	notifier port.Notifier,
	locks *UserLocks,
	log *slog.Logger,
	maxResolve int,
) *CheckoutService {
	if maxResolve <= 0 {
		maxResolve = 10
	}

	return &CheckoutService{
		carts:      carts,
		orders:     orders,
		catalog:    catalog,
		users:      users,
		notifier:   notifier,
		locks:      locks,
		log:        log,
		maxResolve: maxResolve,
	}
}

// PlaceOrder runs the whole checkout: read cart, partition by seller, persist
// every order in one transaction, clear the cart, then notify sellers. The
// user's cart lock is held from the first read through the clear so no cart
// mutation can interleave mid-checkout. Notifications happen after the
// transaction commits and never fail the checkout.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string) ([]domain.Order, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	drafts, err := s.assemble(ctx, userID, cart)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.CreateOrders(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("persist orders: %w", err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	for _, order := range orders {
		s.notifier.Notify(order.SellerID, eventOrders, domain.OrderEvent{
			Action: domain.OrderActionCreate,
			Order:  order,
		})
	}

	return orders, nil
}

// assemble resolves every cart line and partitions the lines by owning
// seller, one draft per seller. Any line whose item no longer resolves fails
// the whole assembly: a partial order must never be built from an
// inconsistent cart.
func (s *CheckoutService) assemble(ctx context.Context, userID string, cart domain.Cart) ([]domain.OrderDraft, error) {
	buyer, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve buyer %s: %w", userID, err)
	}

	items := make([]domain.Item, len(cart.Lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxResolve)

	for idx, line := range cart.Lines {
		g.Go(func() error {
			item, err := s.catalog.GetItem(gctx, line.ItemID)
			if err != nil {
				if errors.Is(err, port.ErrNotFound) {
					return fmt.Errorf("item %s: %w", line.ItemID, ErrStaleCartReference)
				}
				return fmt.Errorf("resolve item %s: %w", line.ItemID, err)
			}
			items[idx] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stable partition: sellers appear in order of their first cart line,
	// lines keep cart order within each group.
	groups := make(map[string][]domain.OrderLine)
	sellerIDs := make([]string, 0, len(cart.Lines))

	for idx, line := range cart.Lines {
		item := items[idx]
		if _, ok := groups[item.SellerID]; !ok {
			sellerIDs = append(sellerIDs, item.SellerID)
		}
		groups[item.SellerID] = append(groups[item.SellerID], domain.OrderLine{
			Item:     item.Snapshot(),
			Quantity: line.Quantity,
		})
	}

	buyerSnapshot := domain.BuyerSnapshot{
		Email:   buyer.Email,
		Name:    buyer.FirstName,
		Address: buyer.Address,
	}

	drafts := make([]domain.OrderDraft, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		seller, err := s.catalog.GetSeller(ctx, sellerID)
		if err != nil {
			if errors.Is(err, port.ErrNotFound) {
				return nil, fmt.Errorf("seller %s: %w", sellerID, ErrStaleCartReference)
			}
			return nil, fmt.Errorf("resolve seller %s: %w", sellerID, err)
		}

		drafts = append(drafts, domain.OrderDraft{
			BuyerID:  userID,
			Buyer:    buyerSnapshot,
			SellerID: sellerID,
			Seller: domain.SellerSnapshot{
				Name:  seller.Name,
				Phone: seller.Address.PhoneNo,
			},
			Lines: groups[sellerID],
		})
	}

	return drafts, nil
}
