package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/saarock/sopy-ecommerce/internal/service"
)

// OmiseGateway authorizes card charges with Omise. Only the authorization
// happens here; the final paid/failed outcome arrives later through the
// payment event consumer.
type OmiseGateway struct {
	omc *omise.Client
}

func NewOmiseGateway(publicKey, secretKey string) (*OmiseGateway, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("omise client: %w", err)
	}
	return &OmiseGateway{omc: c}, nil
}

// Disabled stands in when no gateway credentials are configured; card
// purchases are rejected up front instead of panicking mid-request.
type Disabled struct{}

func (Disabled) Authorize(ctx context.Context, in service.ChargeInput) (string, error) {
	return "", errors.New("card payments are not configured")
}

func (g *OmiseGateway) Authorize(ctx context.Context, in service.ChargeInput) (string, error) {
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   in.Amount,
		Currency: in.Currency,
		Card:     in.CardToken,
		Metadata: map[string]any{"order_id": in.OrderID},
	}
	if err := g.omc.Do(ch, req); err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}
	if string(ch.Status) == "failed" {
		msg := "charge declined"
		if ch.FailureMessage != nil {
			msg = *ch.FailureMessage
		}
		return "", fmt.Errorf("create charge: %s", msg)
	}
	return ch.ID, nil
}
