package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

// MySQLAdapter backs the order store and the item/seller/user read models.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

const orderColumns = `id, buyer_id, buyer_email, buyer_name, buyer_address,
	seller_id, seller_name, seller_phone, items, status, created_at`

// CreateOrders persists every draft of one checkout inside a single
// transaction so a multi-seller checkout commits all orders or none.
func (m *MySQLAdapter) CreateOrders(ctx context.Context, drafts []domain.OrderDraft) ([]domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Second)
	orders := make([]domain.Order, 0, len(drafts))

	for _, draft := range drafts {
		order := domain.Order{
			ID:        uuid.NewString(),
			BuyerID:   draft.BuyerID,
			Buyer:     draft.Buyer,
			SellerID:  draft.SellerID,
			Seller:    draft.Seller,
			Lines:     draft.Lines,
			Status:    domain.OrderStatusPlaced,
			CreatedAt: now,
		}

		items, err := json.Marshal(order.Lines)
		if err != nil {
			return nil, fmt.Errorf("marshal order lines: %w", err)
		}
		address, err := json.Marshal(order.Buyer.Address)
		if err != nil {
			return nil, fmt.Errorf("marshal buyer address: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, buyer_id, buyer_email, buyer_name, buyer_address,
				seller_id, seller_name, seller_phone, items, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, order.BuyerID, order.Buyer.Email, order.Buyer.Name, address,
			order.SellerID, order.Seller.Name, order.Seller.Phone, items,
			string(order.Status), order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order for seller %s: %w", order.SellerID, err)
		}

		orders = append(orders, order)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit orders: %w", err)
	}

	return orders, nil
}

func (m *MySQLAdapter) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = ?`, orderID,
	)

	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, port.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("query order %s: %w", orderID, err)
	}

	return order, nil
}

func (m *MySQLAdapter) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return m.findOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE buyer_id = ?
		ORDER BY created_at DESC`, buyerID)
}

func (m *MySQLAdapter) FindBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return m.findOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE seller_id = ?
		ORDER BY created_at DESC`, sellerID)
}

func (m *MySQLAdapter) findOrders(ctx context.Context, query, ownerID string) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (m *MySQLAdapter) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE orders SET status = ? WHERE id = ?`,
		string(status), orderID,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order %s: %w", orderID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// RowsAffected is also 0 when the status already matched, so
		// confirm the order is actually missing.
		if _, err := m.FindByID(ctx, orderID); err != nil {
			return domain.Order{}, err
		}
	}

	return m.FindByID(ctx, orderID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order   domain.Order
		status  string
		items   []byte
		address []byte
	)

	err := row.Scan(
		&order.ID, &order.BuyerID, &order.Buyer.Email, &order.Buyer.Name, &address,
		&order.SellerID, &order.Seller.Name, &order.Seller.Phone, &items,
		&status, &order.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	if err := json.Unmarshal(address, &order.Buyer.Address); err != nil {
		return domain.Order{}, fmt.Errorf("decode buyer address: %w", err)
	}
	if err := json.Unmarshal(items, &order.Lines); err != nil {
		return domain.Order{}, fmt.Errorf("decode order lines: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	return order, nil
}
