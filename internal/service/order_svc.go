package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

const defaultCurrency = "thb"

type ledgerEffect int

const (
	effectNone ledgerEffect = iota
	effectRestore
	effectReserve
)

// transitionEffect is the closed transition table: entering cancelled gives
// the stock back, leaving cancelled takes it again, everything else leaves
// the ledger alone. Equal from/to never reaches here.
func transitionEffect(from, to domain.BookingStatus) ledgerEffect {
	switch {
	case to == domain.StatusCancelled && from != domain.StatusCancelled:
		return effectRestore
	case from == domain.StatusCancelled && to != domain.StatusCancelled:
		return effectReserve
	default:
		return effectNone
	}
}

// OrderSvc drives the booking state machine. All transitions for one booking
// are serialized through a keyed mutex; stock effects go through the ledger
// exactly once per effective transition.
type OrderSvc struct {
	bookings BookingStore
	products ProductStore
	ledger   *InventorySvc
	disp     *Dispatcher
	pub      EventPublisher
	gateway  PaymentGateway
	log      *zap.Logger

	now    func() time.Time
	window time.Duration
	locks  *kmutex
}

func NewOrderSvc(b BookingStore, p ProductStore, ledger *InventorySvc, disp *Dispatcher, pub EventPublisher, gw PaymentGateway, window time.Duration, log *zap.Logger) *OrderSvc {
	if window <= 0 {
		window = DefaultCancelWindow
	}
	return &OrderSvc{
		bookings: b,
		products: p,
		ledger:   ledger,
		disp:     disp,
		pub:      pub,
		gateway:  gw,
		log:      log,
		now:      time.Now,
		window:   window,
		locks:    newKmutex(),
	}
}

// CreateBooking validates, authorizes payment (card only, strictly before the
// stock mutation), reserves stock, persists the booking, then fans out
// notifications. Notification and event failures never fail the request.
func (s *OrderSvc) CreateBooking(ctx context.Context, buyerID, productID string, qty int, method domain.PaymentMethod, cardToken string) (*domain.Booking, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q: %w", method, domain.ErrValidation)
	}
	p, err := s.products.ByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		ID:            uuid.NewString(),
		BuyerID:       buyerID,
		ProductID:     p.ID,
		Quantity:      qty,
		UnitPrice:     p.UnitPrice,
		PaymentMethod: method,
		Status:        domain.StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if method == domain.PayOnDelivery {
		b.Status = domain.StatusCompleted
	}

	// Payment authorization happens before any lock or stock change; the
	// gateway confirms the final outcome later through the payment consumer.
	if method == domain.PayByCard {
		if cardToken == "" {
			return nil, fmt.Errorf("card token required: %w", domain.ErrValidation)
		}
		ref, err := s.gateway.Authorize(ctx, ChargeInput{
			OrderID:   b.ID,
			Amount:    p.UnitPrice * int64(qty),
			Currency:  defaultCurrency,
			CardToken: cardToken,
		})
		if err != nil {
			return nil, fmt.Errorf("authorize payment: %w", err)
		}
		b.ProviderRef = ref
	}

	p, lowStock, err := s.ledger.Reserve(ctx, p.ID, qty)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		// give the reservation back, nothing partial may survive
		if _, rerr := s.ledger.Restore(ctx, b.ProductID, qty); rerr != nil {
			s.log.Error("restore after failed create", zap.String("product_id", b.ProductID), zap.Error(rerr))
		}
		return nil, err
	}

	if err := s.pub.PublishJSON(ctx, "order.created", map[string]any{
		"order_id": b.ID, "buyer_id": b.BuyerID, "product_id": b.ProductID,
		"quantity": b.Quantity, "status": b.Status,
	}); err != nil {
		s.log.Warn("publish order.created", zap.Error(err))
	}

	md := domain.Metadata{"order_id": b.ID, "product_id": p.ID}
	if _, err := s.disp.NotifyPrincipal(ctx, buyerID, fmt.Sprintf("You purchased %d x %s", qty, p.Name), domain.ActionPurchase, domain.RoleUser, md); err != nil {
		s.log.Warn("notify buyer", zap.String("order_id", b.ID), zap.Error(err))
	}
	if err := s.disp.NotifyAllAdmins(ctx, fmt.Sprintf("New order %s: %d x %s", b.ID, qty, p.Name), domain.ActionOrderPlaced, md); err != nil {
		s.log.Warn("notify admins", zap.String("order_id", b.ID), zap.Error(err))
	}
	if lowStock {
		if err := s.disp.NotifyAllAdmins(ctx, fmt.Sprintf("%s is low on stock (%d left)", p.Name, p.Stock), domain.ActionLowStock, domain.Metadata{"product_id": p.ID, "stock": p.Stock}); err != nil {
			s.log.Warn("notify low stock", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
	return b, nil
}

// ChangeStatus applies an admin transition. A request for the current status
// is a pure no-op: no ledger call, no notification.
func (s *OrderSvc) ChangeStatus(ctx context.Context, bookingID string, to domain.BookingStatus, actorID string) (*domain.Booking, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", to, domain.ErrValidation)
	}
	s.locks.Lock(bookingID)
	defer s.locks.Unlock(bookingID)

	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == to {
		return b, nil
	}
	return s.transition(ctx, b, to, actorID, false)
}

// CancelByOwner is the buyer's time-boxed self-service cancellation.
func (s *OrderSvc) CancelByOwner(ctx context.Context, bookingID, buyerID string) (*domain.Booking, error) {
	s.locks.Lock(bookingID)
	defer s.locks.Unlock(bookingID)

	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BuyerID != buyerID {
		return nil, fmt.Errorf("booking %s belongs to another buyer: %w", bookingID, domain.ErrForbidden)
	}
	if b.Status == domain.StatusCancelled || b.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("booking %s is %s: %w", bookingID, b.Status, domain.ErrAlreadyInState)
	}
	if !CancelAllowed(b.CreatedAt, s.now(), s.window) {
		return nil, fmt.Errorf("booking %s created %s: %w", bookingID, b.CreatedAt.Format(time.RFC3339), domain.ErrWindowExpired)
	}
	return s.transition(ctx, b, domain.StatusCancelled, buyerID, true)
}

// ApplyPaymentResult drives pending -> completed|failed from the payment
// confirmation source. Idempotent: a booking no longer pending is untouched.
// The charge reference is already on the booking from authorization time.
func (s *OrderSvc) ApplyPaymentResult(ctx context.Context, bookingID string, success bool) (*domain.Booking, error) {
	s.locks.Lock(bookingID)
	defer s.locks.Unlock(bookingID)

	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.StatusPending {
		return b, nil
	}
	to := domain.StatusFailed
	if success {
		to = domain.StatusCompleted
	}
	return s.transition(ctx, b, to, "payment-gateway", false)
}

// transition performs an effective (from != to) status change: ledger effect
// per the transition table, persist, then best-effort events and fan-out.
// Caller must hold the booking lock.
func (s *OrderSvc) transition(ctx context.Context, b *domain.Booking, to domain.BookingStatus, actorID string, byOwner bool) (*domain.Booking, error) {
	from := b.Status
	switch transitionEffect(from, to) {
	case effectRestore:
		if _, err := s.ledger.Restore(ctx, b.ProductID, b.Quantity); err != nil {
			return nil, err
		}
	case effectReserve:
		// reactivation competes with everyone else for stock
		if _, _, err := s.ledger.Reserve(ctx, b.ProductID, b.Quantity); err != nil {
			return nil, err
		}
	}

	updated, err := s.bookings.UpdateStatus(ctx, b.ID, to)
	if err != nil {
		// reverse the ledger effect so the net stays zero
		switch transitionEffect(from, to) {
		case effectRestore:
			if _, _, rerr := s.ledger.Reserve(ctx, b.ProductID, b.Quantity); rerr != nil {
				s.log.Error("re-reserve after failed transition", zap.String("order_id", b.ID), zap.Error(rerr))
			}
		case effectReserve:
			if _, rerr := s.ledger.Restore(ctx, b.ProductID, b.Quantity); rerr != nil {
				s.log.Error("restore after failed transition", zap.String("order_id", b.ID), zap.Error(rerr))
			}
		}
		return nil, err
	}

	if err := s.pub.PublishJSON(ctx, "order.status_changed", map[string]any{
		"order_id": updated.ID, "from": from, "to": to, "actor_id": actorID,
	}); err != nil {
		s.log.Warn("publish order.status_changed", zap.Error(err))
	}

	md := domain.Metadata{"order_id": updated.ID, "from": string(from), "to": string(to)}
	if _, err := s.disp.NotifyPrincipal(ctx, updated.BuyerID, fmt.Sprintf("Your order %s is now %s", updated.ID, to), domain.ActionStatusChanged, domain.RoleUser, md); err != nil {
		s.log.Warn("notify buyer", zap.String("order_id", updated.ID), zap.Error(err))
	}
	if byOwner {
		if err := s.disp.NotifyAllAdmins(ctx, fmt.Sprintf("Order %s was cancelled by the buyer", updated.ID), domain.ActionCancelledByUser, md); err != nil {
			s.log.Warn("notify admins", zap.String("order_id", updated.ID), zap.Error(err))
		}
	} else {
		if err := s.disp.NotifyAllAdmins(ctx, fmt.Sprintf("Order %s changed from %s to %s", updated.ID, from, to), domain.ActionStatusChanged, md); err != nil {
			s.log.Warn("notify admins", zap.String("order_id", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

func (s *OrderSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.ByID(ctx, id)
}

func (s *OrderSvc) ListForBuyer(ctx context.Context, buyerID string, page, size int) ([]domain.Booking, int64, error) {
	return s.bookings.ListForBuyer(ctx, buyerID, page, size)
}
