package notifier

import (
	"context"

	"github.com/saarock/sopy-ecommerce/internal/service"
	"github.com/saarock/sopy-ecommerce/pkg/mq"
)

// MQPusher delivers push events through the broker; the socket gateway that
// owns the actual connections consumes them by session routing key.
type MQPusher struct {
	pub *mq.Publisher
}

func NewMQPusher(pub *mq.Publisher) *MQPusher {
	return &MQPusher{pub: pub}
}

func (p *MQPusher) Push(ctx context.Context, sessionID string, ev service.PushEvent) error {
	return p.pub.PublishJSON(ctx, "push."+sessionID, ev)
}
