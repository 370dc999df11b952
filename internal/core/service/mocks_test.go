package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mihirp/food-order/internal/core/domain"
	"github.com/mihirp/food-order/internal/port"
)

// Mock CartRepository. AddItem deliberately does a non-atomic
// read-modify-write with a pause in the middle so tests can prove the
// service-level lock serializes concurrent mutations.
type mockCartRepo struct {
	mu    sync.Mutex
	carts map[string][]domain.CartLine

	clearCalls int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string][]domain.CartLine)}
}

func (m *mockCartRepo) snapshot(userID string) []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]domain.CartLine, len(m.carts[userID]))
	copy(lines, m.carts[userID])
	return lines
}

func (m *mockCartRepo) seed(userID string, lines ...domain.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = lines
}

func (m *mockCartRepo) Get(ctx context.Context, userID string) (domain.Cart, error) {
	return domain.Cart{UserID: userID, Lines: m.snapshot(userID)}, nil
}

func (m *mockCartRepo) AddItem(ctx context.Context, userID, itemID string) error {
	lines := m.snapshot(userID)
	time.Sleep(time.Millisecond) // widen the lost-update window

	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity++
			m.mu.Lock()
			m.carts[userID] = lines
			m.mu.Unlock()
			return nil
		}
	}

	lines = append(lines, domain.CartLine{ItemID: itemID, Quantity: 1})
	m.mu.Lock()
	m.carts[userID] = lines
	m.mu.Unlock()
	return nil
}

func (m *mockCartRepo) Decrement(ctx context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ItemID != itemID {
			continue
		}
		lines[i].Quantity--
		if lines[i].Quantity <= 0 {
			m.carts[userID] = append(lines[:i], lines[i+1:]...)
		} else {
			m.carts[userID] = lines
		}
		return nil
	}
	return nil
}

func (m *mockCartRepo) Remove(ctx context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ItemID == itemID {
			m.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockCartRepo) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	delete(m.carts, userID)
	return nil
}

// Mock OrderRepository
type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	seq    []string

	failCreate bool
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]domain.Order)}
}

func (m *mockOrderRepo) CreateOrders(ctx context.Context, drafts []domain.OrderDraft) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate {
		return nil, fmt.Errorf("storage unavailable")
	}

	created := make([]domain.Order, 0, len(drafts))
	for _, draft := range drafts {
		order := domain.Order{
			ID:        uuid.NewString(),
			BuyerID:   draft.BuyerID,
			Buyer:     draft.Buyer,
			SellerID:  draft.SellerID,
			Seller:    draft.Seller,
			Lines:     draft.Lines,
			Status:    domain.OrderStatusPlaced,
			CreatedAt: time.Now().UTC(),
		}
		m.orders[order.ID] = order
		m.seq = append(m.seq, order.ID)
		created = append(created, order)
	}
	return created, nil
}

func (m *mockOrderRepo) all() []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := make([]domain.Order, 0, len(m.seq))
	for _, id := range m.seq {
		orders = append(orders, m.orders[id])
	}
	return orders
}

func (m *mockOrderRepo) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, port.ErrNotFound)
	}
	return order, nil
}

func (m *mockOrderRepo) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	for _, id := range m.seq {
		if m.orders[id].BuyerID == buyerID {
			orders = append(orders, m.orders[id])
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) FindBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []domain.Order
	for _, id := range m.seq {
		if m.orders[id].SellerID == sellerID {
			orders = append(orders, m.orders[id])
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %s: %w", orderID, port.ErrNotFound)
	}
	order.Status = status
	m.orders[orderID] = order
	return order, nil
}

// Mock CatalogRepository
type mockCatalog struct {
	mu      sync.Mutex
	items   map[string]domain.Item
	sellers map[string]domain.Seller
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		items:   make(map[string]domain.Item),
		sellers: make(map[string]domain.Seller),
	}
}

func (m *mockCatalog) addSeller(seller domain.Seller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sellers[seller.ID] = seller
}

func (m *mockCatalog) addItem(item domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *mockCatalog) removeItem(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemID)
}

func (m *mockCatalog) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return domain.Item{}, fmt.Errorf("item %s: %w", itemID, port.ErrNotFound)
	}
	return item, nil
}

func (m *mockCatalog) GetSeller(ctx context.Context, sellerID string) (domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seller, ok := m.sellers[sellerID]
	if !ok {
		return domain.Seller{}, fmt.Errorf("seller %s: %w", sellerID, port.ErrNotFound)
	}
	return seller, nil
}

func (m *mockCatalog) GetSellerWithItems(ctx context.Context, sellerID string) (domain.Seller, error) {
	return m.GetSeller(ctx, sellerID)
}

func (m *mockCatalog) ListVerifiedSellers(ctx context.Context) ([]domain.Seller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sellers []domain.Seller
	for _, s := range m.sellers {
		if s.Verified {
			sellers = append(sellers, s)
		}
	}
	return sellers, nil
}

// Mock UserRepository
type mockUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{users: make(map[string]domain.User)}
}

func (m *mockUsers) addUser(user domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *mockUsers) GetUser(ctx context.Context, userID string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, port.ErrNotFound)
	}
	return user, nil
}

func (m *mockUsers) UpdateAddress(ctx context.Context, userID, formattedAddress string, addr domain.Address) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, port.ErrNotFound)
	}
	user.FormattedAddress = formattedAddress
	user.Address = addr
	m.users[userID] = user
	return user, nil
}

func (m *mockUsers) ResolveParticipant(ctx context.Context, accountID string) (domain.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.AccountID == accountID {
			return domain.Participant{Kind: domain.ParticipantUser, ID: u.ID, AccountID: accountID}, nil
		}
	}
	return domain.Participant{}, fmt.Errorf("account %s: %w", accountID, port.ErrNotFound)
}

// Mock Notifier
type sentEvent struct {
	participantID string
	event         string
	payload       any
}

type mockNotifier struct {
	mu         sync.Mutex
	notified   []sentEvent
	broadcasts []sentEvent
}

func (m *mockNotifier) Notify(participantID, event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, sentEvent{participantID: participantID, event: event, payload: payload})
}

func (m *mockNotifier) Broadcast(event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcasts = append(m.broadcasts, sentEvent{event: event, payload: payload})
}

func (m *mockNotifier) sent() ([]sentEvent, []sentEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEvent(nil), m.notified...), append([]sentEvent(nil), m.broadcasts...)
}
