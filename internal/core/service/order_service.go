package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

// OrderService owns the order read paths and the status state machine.
type OrderService struct {
	orders   port.OrderRepository
	notifier port.Notifier
	log      *slog.Logger
}

func NewOrderService(orders port.OrderRepository, notifier port.Notifier, log *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		notifier: notifier,
		log:      log,
	}
}

// UpdateStatus validates the transition against the state graph, persists it,
// and broadcasts exactly one "update" event. A rejected transition writes and
// broadcasts nothing.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.Order, error) {
	if !next.Valid() {
		return domain.Order{}, fmt.Errorf("unknown status %q: %w", next, domain.ErrInvalidTransition)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order %s: %w", orderID, err)
	}

	if !order.Status.CanTransitionTo(next) {
		return domain.Order{}, fmt.Errorf("%s -> %s: %w", order.Status, next, domain.ErrInvalidTransition)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order %s: %w", orderID, err)
	}

	s.log.Info("order status updated",
		"order_id", orderID,
		"from", string(order.Status),
		"to", string(next),
	)

	s.notifier.Broadcast(eventOrders, domain.OrderEvent{
		Action: domain.OrderActionUpdate,
		Order:  updated,
	})

	return updated, nil
}

// Get retrieves one order.
func (s *OrderService) Get(ctx context.Context, orderID string) (domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// ListFor returns the orders visible to a participant: a user sees the orders
// it placed, a seller sees the orders placed with it.
func (s *OrderService) ListFor(ctx context.Context, p domain.Participant) ([]domain.Order, error) {
	switch p.Kind {
	case domain.ParticipantSeller:
		return s.orders.FindBySeller(ctx, p.ID)
	default:
		return s.orders.FindByBuyer(ctx, p.ID)
	}
}
