package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

const itemColumns = `id, seller_id, title, description, tags, image_url, price, created_at`

func (m *MySQLAdapter) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	var item domain.Item
	err := m.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items WHERE id = ?`, itemID,
	).Scan(
		&item.ID, &item.SellerID, &item.Title, &item.Description,
		&item.Tags, &item.ImageURL, &item.Price, &item.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("item %s: %w", itemID, port.ErrNotFound)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("query item %s: %w", itemID, err)
	}

	return item, nil
}

const sellerColumns = `s.id, s.account_id, s.name, s.tags, s.formatted_address,
	s.address, s.min_order_amount, s.cost_for_one, a.is_verified, s.created_at`

func (m *MySQLAdapter) GetSeller(ctx context.Context, sellerID string) (domain.Seller, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT `+sellerColumns+`
		FROM sellers s JOIN accounts a ON a.id = s.account_id
		WHERE s.id = ?`, sellerID,
	)

	seller, err := scanSeller(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Seller{}, fmt.Errorf("seller %s: %w", sellerID, port.ErrNotFound)
	}
	if err != nil {
		return domain.Seller{}, fmt.Errorf("query seller %s: %w", sellerID, err)
	}

	return seller, nil
}

func (m *MySQLAdapter) GetSellerWithItems(ctx context.Context, sellerID string) (domain.Seller, error) {
	seller, err := m.GetSeller(ctx, sellerID)
	if err != nil {
		return domain.Seller{}, err
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items WHERE seller_id = ?
		ORDER BY created_at DESC`, sellerID,
	)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("query seller %s items: %w", sellerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.Item
		err := rows.Scan(
			&item.ID, &item.SellerID, &item.Title, &item.Description,
			&item.Tags, &item.ImageURL, &item.Price, &item.CreatedAt,
		)
		if err != nil {
			return domain.Seller{}, fmt.Errorf("scan item: %w", err)
		}
		seller.Items = append(seller.Items, item)
	}

	return seller, rows.Err()
}

func (m *MySQLAdapter) ListVerifiedSellers(ctx context.Context) ([]domain.Seller, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+sellerColumns+`
		FROM sellers s JOIN accounts a ON a.id = s.account_id
		WHERE a.is_verified = TRUE
		ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sellers: %w", err)
	}
	defer rows.Close()

	var sellers []domain.Seller
	for rows.Next() {
		seller, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		sellers = append(sellers, seller)
	}

	return sellers, rows.Err()
}

func (m *MySQLAdapter) GetUser(ctx context.Context, userID string) (domain.User, error) {
	var (
		user    domain.User
		address []byte
	)

	err := m.db.QueryRowContext(ctx, `
		SELECT u.id, u.account_id, a.email, u.first_name, u.last_name,
			u.formatted_address, u.address, u.created_at
		FROM users u JOIN accounts a ON a.id = u.account_id
		WHERE u.id = ?`, userID,
	).Scan(
		&user.ID, &user.AccountID, &user.Email, &user.FirstName, &user.LastName,
		&user.FormattedAddress, &address, &user.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, port.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user %s: %w", userID, err)
	}

	if err := json.Unmarshal(address, &user.Address); err != nil {
		return domain.User{}, fmt.Errorf("decode user address: %w", err)
	}

	return user, nil
}

func (m *MySQLAdapter) UpdateAddress(ctx context.Context, userID, formattedAddress string, addr domain.Address) (domain.User, error) {
	address, err := json.Marshal(addr)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal address: %w", err)
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE users SET formatted_address = ?, address = ? WHERE id = ?`,
		formattedAddress, address, userID,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("update user %s address: %w", userID, err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		if _, err := m.GetUser(ctx, userID); err != nil {
			return domain.User{}, err
		}
	}

	return m.GetUser(ctx, userID)
}

// ResolveParticipant maps an account to the user or seller profile it owns.
// The kind is decided here, once, so callers never sniff record shapes.
func (m *MySQLAdapter) ResolveParticipant(ctx context.Context, accountID string) (domain.Participant, error) {
	var id string

	err := m.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE account_id = ?`, accountID,
	).Scan(&id)
	if err == nil {
		return domain.Participant{Kind: domain.ParticipantUser, ID: id, AccountID: accountID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Participant{}, fmt.Errorf("query user by account %s: %w", accountID, err)
	}

	err = m.db.QueryRowContext(ctx,
		`SELECT id FROM sellers WHERE account_id = ?`, accountID,
	).Scan(&id)
	if err == nil {
		return domain.Participant{Kind: domain.ParticipantSeller, ID: id, AccountID: accountID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Participant{}, fmt.Errorf("query seller by account %s: %w", accountID, err)
	}

	return domain.Participant{}, fmt.Errorf("account %s: %w", accountID, port.ErrNotFound)
}

func scanSeller(row rowScanner) (domain.Seller, error) {
	var (
		seller  domain.Seller
		address []byte
	)

	err := row.Scan(
		&seller.ID, &seller.AccountID, &seller.Name, &seller.Tags,
		&seller.FormattedAddress, &address, &seller.MinOrderAmount,
		&seller.CostForOne, &seller.Verified, &seller.CreatedAt,
	)
	if err != nil {
		return domain.Seller{}, err
	}

	if err := json.Unmarshal(address, &seller.Address); err != nil {
		return domain.Seller{}, fmt.Errorf("decode seller address: %w", err)
	}

	return seller, nil
}
