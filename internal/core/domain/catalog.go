package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address is the structured delivery/contact address shared by users and
// sellers.
type Address struct {
	Street   string  `json:"street"`
	Locality string  `json:"locality"`
	AptName  string  `json:"aptName"`
	Zip      string  `json:"zip"`
	PhoneNo  string  `json:"phoneNo"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type Item struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"sellerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        string          `json:"tags"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ItemSnapshot is the subset of an item frozen into an order line.
type ItemSnapshot struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"sellerId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
}

// Snapshot freezes the fields of an item that an order must keep even after
// the catalog row changes or disappears.
func (i Item) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		ID:          i.ID,
		SellerID:    i.SellerID,
		Title:       i.Title,
		Description: i.Description,
		ImageURL:    i.ImageURL,
		Price:       i.Price,
	}
}

type Seller struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	Name             string          `json:"name"`
	Tags             string          `json:"tags"`
	FormattedAddress string          `json:"formattedAddress"`
	Address          Address         `json:"address"`
	MinOrderAmount   decimal.Decimal `json:"minOrderAmount"`
	CostForOne       decimal.Decimal `json:"costForOne"`
	Verified         bool            `json:"verified"`
	Items            []Item          `json:"items,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type User struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"accountId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	FormattedAddress string    `json:"formattedAddress"`
	Address          Address   `json:"address"`
	CreatedAt        time.Time `json:"createdAt"`
}
