package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// In-memory fakes standing in for the gorm repositories. The product fake
// keeps the same contract as the real store: the decrement is conditional
// and serialized, so the concurrency properties hold here too.

type memProductStore struct {
	mu         sync.Mutex
	products   map[string]*domain.Product
	decrements int
	increments int
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]*domain.Product)}
}

func (m *memProductStore) put(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.products[p.ID] = &cp
}

func (m *memProductStore) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = fmt.Sprintf("p-%d", len(m.products)+1)
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProductStore) ByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memProductStore) List(ctx context.Context, page, size int) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProductStore) DecrementStock(ctx context.Context, id string, qty int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decrements++
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	if !p.IsAvailable || p.Stock < qty {
		return nil, fmt.Errorf("product %s (stock=%d, available=%t): %w", id, p.Stock, p.IsAvailable, domain.ErrInsufficientStock)
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

func (m *memProductStore) IncrementStock(ctx context.Context, id string, qty int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.increments++
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	p.Stock += qty
	cp := *p
	return &cp, nil
}

func (m *memProductStore) ListBelowThreshold(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if p.IsAvailable && p.Stock <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memProductStore) ledgerCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decrements + m.increments
}

type memBookingStore struct {
	mu        sync.Mutex
	bookings  map[string]*domain.Booking
	createErr error
	updateErr error
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{bookings: make(map[string]*domain.Booking)}
}

func (m *memBookingStore) put(b domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := b
	m.bookings[b.ID] = &cp
}

func (m *memBookingStore) Create(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookingStore) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) UpdateStatus(ctx context.Context, id string, to domain.BookingStatus) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	b.Status = to
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) ListForBuyer(ctx context.Context, buyerID string, page, size int) ([]domain.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.BuyerID == buyerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

type memNotificationStore struct {
	mu       sync.Mutex
	notes    []*domain.Notification
	failFor  map[string]error // recipient id -> create error
	countErr error
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{failFor: make(map[string]error)}
}

func (m *memNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failFor[n.RecipientID]; err != nil {
		return err
	}
	cp := *n
	m.notes = append(m.notes, &cp)
	return nil
}

func (m *memNotificationStore) ListForRecipient(ctx context.Context, recipientID string, isRead *bool, offset, limit int) ([]domain.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Notification
	for _, n := range m.notes {
		if n.RecipientID != recipientID {
			continue
		}
		if isRead != nil && n.IsRead != *isRead {
			continue
		}
		all = append(all, *n)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *memNotificationStore) SetRead(ctx context.Context, id, recipientID string, read bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.ID == id {
			if n.RecipientID != recipientID {
				return fmt.Errorf("notification %s belongs to another recipient: %w", id, domain.ErrForbidden)
			}
			n.IsRead = read
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
}

func (m *memNotificationStore) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var total int64
	for _, n := range m.notes {
		if n.RecipientID == recipientID && !n.IsRead {
			total++
		}
	}
	return total, nil
}

func (m *memNotificationStore) byAction(action domain.ActionType) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.notes {
		if n.ActionType == action {
			out = append(out, *n)
		}
	}
	return out
}

func (m *memNotificationStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notes)
}

type memUserDirectory struct {
	byRole map[domain.Role][]string
}

func (m *memUserDirectory) ListIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	return m.byRole[role], nil
}

type pushRec struct {
	sessionID string
	ev        PushEvent
}

type memPusher struct {
	mu     sync.Mutex
	pushes []pushRec
	err    error
}

func (m *memPusher) Push(ctx context.Context, sessionID string, ev PushEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.pushes = append(m.pushes, pushRec{sessionID: sessionID, ev: ev})
	return nil
}

func (m *memPusher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushes)
}

type memPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *memPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	return nil
}

func (m *memPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []ChargeInput
	ref   string
	err   error
}

func (g *fakeGateway) Authorize(ctx context.Context, in ChargeInput) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, in)
	if g.err != nil {
		return "", g.err
	}
	if g.ref == "" {
		return "chrg_test", nil
	}
	return g.ref, nil
}
