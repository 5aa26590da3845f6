package consumer

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
	"github.com/saarock/sopy-ecommerce/pkg/mq"
)

// PaymentEvent is the confirmation envelope from the payment source.
// payment.paid drives pending -> completed, payment.failed -> failed.
type PaymentEvent struct {
	Event   string `json:"event"`
	Version int    `json:"version"`
	Data    struct {
		PaymentID string `json:"payment_id"`
		OrderID   string `json:"order_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

type orderApplier interface {
	ApplyPaymentResult(ctx context.Context, bookingID string, success bool) (*domain.Booking, error)
}

type eventLedger interface {
	MarkEventConsumed(ctx context.Context, eventID, eventKey string) (bool, error)
}

type PaymentConsumer struct {
	orders orderApplier
	events eventLedger
	cons   *mq.Consumer
	log    *zap.Logger
}

func NewPaymentConsumer(orders orderApplier, events eventLedger, cons *mq.Consumer, log *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{orders: orders, events: events, cons: cons, log: log}
}

func (pc *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := pc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			pc.handle(ctx, d)
		}
	}()
	return nil
}

func (pc *PaymentConsumer) handle(ctx context.Context, d amqp.Delivery) {
	switch d.RoutingKey {
	case "payment.paid", "payment.failed":
	default:
		_ = d.Ack(false)
		return
	}

	var evt PaymentEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		pc.log.Warn("payment event decode", zap.String("key", d.RoutingKey), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	if evt.Data.OrderID == "" || evt.Data.PaymentID == "" {
		pc.log.Warn("payment event missing ids", zap.String("key", d.RoutingKey))
		_ = d.Ack(false)
		return
	}

	// ApplyPaymentResult is idempotent, so applying before recording the
	// event id is safe under redelivery. Only infrastructure errors are
	// worth a redelivery; an unknown order id would poison the queue.
	success := d.RoutingKey == "payment.paid"
	if _, err := pc.orders.ApplyPaymentResult(ctx, evt.Data.OrderID, success); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			pc.log.Warn("payment event for unknown order", zap.String("order_id", evt.Data.OrderID))
			_ = d.Ack(false)
			return
		}
		pc.log.Error("apply payment result", zap.String("order_id", evt.Data.OrderID), zap.Error(err))
		_ = d.Nack(false, true)
		return
	}
	inserted, err := pc.events.MarkEventConsumed(ctx, evt.Data.PaymentID, d.RoutingKey)
	if err != nil {
		pc.log.Warn("mark event consumed", zap.String("payment_id", evt.Data.PaymentID), zap.Error(err))
	} else if !inserted {
		pc.log.Debug("duplicate payment event", zap.String("payment_id", evt.Data.PaymentID))
	}
	_ = d.Ack(false)
}
