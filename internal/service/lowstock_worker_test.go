package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

func TestLowStockWorker_Sweep(t *testing.T) {
	products := newMemProductStore()
	products.put(domain.Product{ID: "p1", Name: "Mug", Stock: 1, LowStockThreshold: 2, IsAvailable: true})
	products.put(domain.Product{ID: "p2", Name: "Tee", Stock: 50, LowStockThreshold: 2, IsAvailable: true})
	products.put(domain.Product{ID: "p3", Name: "Hat", Stock: 0, LowStockThreshold: 2, IsAvailable: false})

	notes := newMemNotificationStore()
	dir := &memUserDirectory{byRole: map[domain.Role][]string{domain.RoleAdmin: {"a1"}}}
	disp := NewDispatcher(NewNotificationSvc(notes), dir, NewConnRegistry(), &memPusher{}, zap.NewNop())

	w := NewLowStockWorker(products, disp, 0, zap.NewNop())
	w.sweep(context.Background())

	alerts := notes.byAction(domain.ActionLowStock)
	assert.Len(t, alerts, 1, "only the available product at or below threshold alerts")
	assert.Equal(t, "a1", alerts[0].RecipientID)
}
