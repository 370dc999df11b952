package domain

import "github.com/shopspring/decimal"

// CartLine is one (item, quantity) pairing in a user's cart. Quantity is
// always >= 1; a line that would reach zero is removed, never stored.
type CartLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Cart is the set of lines owned by one user, unique by item id.
type Cart struct {
	UserID string     `json:"userId"`
	Lines  []CartLine `json:"items"`
}

// ResolvedCartLine is a cart line joined with its current catalog item, used
// by the cart read path to price the cart.
type ResolvedCartLine struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity"`
}

// ResolvedCart is a priced view of a cart.
type ResolvedCart struct {
	Lines      []ResolvedCartLine `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}
