package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

type applyCall struct {
	orderID string
	success bool
}

type fakeApplier struct {
	calls []applyCall
	err   error
}

func (f *fakeApplier) ApplyPaymentResult(ctx context.Context, bookingID string, success bool) (*domain.Booking, error) {
	f.calls = append(f.calls, applyCall{orderID: bookingID, success: success})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Booking{ID: bookingID}, nil
}

type fakeLedger struct {
	inserted bool
	err      error
}

func (f *fakeLedger) MarkEventConsumed(ctx context.Context, eventID, eventKey string) (bool, error) {
	return f.inserted, f.err
}

// fakeAck records the terminal outcome of a delivery.
type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAck) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAck) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAck) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func paymentDelivery(t *testing.T, ack amqp.Acknowledger, key, orderID, paymentID string) amqp.Delivery {
	t.Helper()
	evt := PaymentEvent{Event: key}
	evt.Data.OrderID = orderID
	evt.Data.PaymentID = paymentID
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, RoutingKey: key, Body: body}
}

func TestPaymentConsumer_PaidEvent(t *testing.T) {
	applier := &fakeApplier{}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{inserted: true}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.paid", "b1", "pay_1"))

	require.Len(t, applier.calls, 1)
	assert.Equal(t, applyCall{orderID: "b1", success: true}, applier.calls[0])
	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
}

func TestPaymentConsumer_FailedEvent(t *testing.T) {
	applier := &fakeApplier{}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{inserted: true}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.failed", "b1", "pay_1"))

	require.Len(t, applier.calls, 1)
	assert.False(t, applier.calls[0].success)
	assert.True(t, ack.acked)
}

func TestPaymentConsumer_UnknownOrderIsNotRequeued(t *testing.T) {
	applier := &fakeApplier{err: fmt.Errorf("booking x: %w", domain.ErrNotFound)}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.paid", "ghost", "pay_1"))

	assert.True(t, ack.acked, "an unknown order id must not poison the queue")
	assert.False(t, ack.nacked)
}

func TestPaymentConsumer_InfraErrorIsRequeued(t *testing.T) {
	applier := &fakeApplier{err: errors.New("pg down")}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.paid", "b1", "pay_1"))

	assert.False(t, ack.acked)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue, "transient failures retry")
}

func TestPaymentConsumer_BadPayload(t *testing.T) {
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: &fakeApplier{}, events: &fakeLedger{}, log: zap.NewNop()}

	pc.handle(context.Background(), amqp.Delivery{Acknowledger: ack, RoutingKey: "payment.paid", Body: []byte("{")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue, "garbage never becomes parseable")
}

func TestPaymentConsumer_MissingIDsAcked(t *testing.T) {
	applier := &fakeApplier{}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.paid", "", "pay_1"))

	assert.Empty(t, applier.calls)
	assert.True(t, ack.acked)
}

func TestPaymentConsumer_DuplicateEventStillAcked(t *testing.T) {
	applier := &fakeApplier{}
	ack := &fakeAck{}
	pc := &PaymentConsumer{orders: applier, events: &fakeLedger{inserted: false}, log: zap.NewNop()}

	pc.handle(context.Background(), paymentDelivery(t, ack, "payment.paid", "b1", "pay_1"))

	require.Len(t, applier.calls, 1, "apply is idempotent, duplicates are harmless")
	assert.True(t, ack.acked)
}
