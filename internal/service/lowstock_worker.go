package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/domain"
)

// LowStockWorker periodically re-alerts admins about products sitting at or
// below their threshold, catching anything missed while no admin was online.
type LowStockWorker struct {
	products ProductStore
	disp     *Dispatcher
	interval time.Duration
	log      *zap.Logger
}

func NewLowStockWorker(p ProductStore, d *Dispatcher, interval time.Duration, log *zap.Logger) *LowStockWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &LowStockWorker{products: p, disp: d, interval: interval, log: log}
}

func (w *LowStockWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *LowStockWorker) sweep(ctx context.Context) {
	low, err := w.products.ListBelowThreshold(ctx)
	if err != nil {
		w.log.Warn("low-stock sweep", zap.Error(err))
		return
	}
	for i := range low {
		p := &low[i]
		msg := fmt.Sprintf("%s is low on stock (%d left)", p.Name, p.Stock)
		if err := w.disp.NotifyAllAdmins(ctx, msg, domain.ActionLowStock, domain.Metadata{"product_id": p.ID, "stock": p.Stock}); err != nil {
			w.log.Warn("low-stock alert", zap.String("product_id", p.ID), zap.Error(err))
		}
	}
}
