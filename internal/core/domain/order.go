package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Placed"
	OrderStatusAccepted       OrderStatus = "Accepted"
	OrderStatusOutForDelivery OrderStatus = "Out For Delivery"
	OrderStatusCompleted      OrderStatus = "Completed"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// successors is the allowed transition graph. Completed and Cancelled are
// terminal. Forward skips (Placed -> Completed) are rejected.
var successors = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:       {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := successors[s]
	return ok
}

// CanTransitionTo reports whether next is an allowed successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range successors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BuyerSnapshot is the buyer's contact data copied onto an order at checkout
// time. Later profile edits must not rewrite order history.
type BuyerSnapshot struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// SellerSnapshot is the seller's contact data copied at checkout time.
type SellerSnapshot struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// OrderLine pairs an item snapshot with the ordered quantity.
type OrderLine struct {
	Item     ItemSnapshot `json:"item"`
	Quantity int          `json:"quantity"`
}

// OrderDraft is the transient per-seller partition of a cart, produced by
// checkout assembly and not yet persisted.
type OrderDraft struct {
	BuyerID  string
	Buyer    BuyerSnapshot
	SellerID string
	Seller   SellerSnapshot
	Lines    []OrderLine
}

type Order struct {
	ID        string         `json:"id"`
	BuyerID   string         `json:"buyerId"`
	Buyer     BuyerSnapshot  `json:"buyer"`
	SellerID  string         `json:"sellerId"`
	Seller    SellerSnapshot `json:"seller"`
	Lines     []OrderLine    `json:"items"`
	Status    OrderStatus    `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

const (
	OrderActionCreate = "create"
	OrderActionUpdate = "update"
)

// OrderEvent is the payload pushed over the realtime channel under the
// "orders" event name.
type OrderEvent struct {
	Action string `json:"action"`
	Order  Order  `json:"order"`
}
