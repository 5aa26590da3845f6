package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/saarock/sopy-ecommerce/internal/consumer"
	"github.com/saarock/sopy-ecommerce/internal/notifier"
	"github.com/saarock/sopy-ecommerce/internal/payment"
	"github.com/saarock/sopy-ecommerce/internal/repository"
	"github.com/saarock/sopy-ecommerce/internal/service"
	transport "github.com/saarock/sopy-ecommerce/internal/transport/http"
	"github.com/saarock/sopy-ecommerce/pkg/auth"
	"github.com/saarock/sopy-ecommerce/pkg/config"
	"github.com/saarock/sopy-ecommerce/pkg/db"
	"github.com/saarock/sopy-ecommerce/pkg/mq"
	"github.com/saarock/sopy-ecommerce/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())

	logger := must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	shutdownTracer := obs.InitTracer("sopy-ecommerce")

	// DB
	gdb := db.Open(cfg.PGStoreDSN)
	products := repository.NewProductRepo(gdb)
	bookings := repository.NewBookingRepo(gdb)
	notes := repository.NewNotificationRepo(gdb)
	users := repository.NewUserRepo(gdb)
	must(0, products.Migrate())
	must(0, bookings.Migrate())
	must(0, notes.Migrate())
	must(0, users.Migrate())

	// broker
	orderPub := must(mq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange))
	defer orderPub.Close()
	pushPub := must(mq.NewPublisher(cfg.RabbitURL, cfg.PushExchange))
	defer pushPub.Close()

	// payment gateway
	var gateway service.PaymentGateway = payment.Disabled{}
	if cfg.OmisePublicKey != "" && cfg.OmiseSecretKey != "" {
		gateway = must(payment.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey))
	} else {
		logger.Warn("omise keys missing, card payments disabled")
	}

	// services
	registry := service.NewConnRegistry()
	defer registry.Close()
	inv := service.NewInventorySvc(products)
	noteSvc := service.NewNotificationSvc(notes)
	disp := service.NewDispatcher(noteSvc, users, registry, notifier.NewMQPusher(pushPub), logger)
	orders := service.NewOrderSvc(bookings, products, inv, disp, orderPub, gateway,
		time.Duration(cfg.CancelWindowMin)*time.Minute, logger)
	tokens := auth.New(cfg.JWTSecret)
	authSvc := service.NewAuthSvc(users, tokens, time.Duration(cfg.JWTExpireMin)*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// payment confirmation consumer
	payCons := must(mq.NewConsumer(cfg.RabbitURL, cfg.PaymentExchange, cfg.PaymentQueue,
		[]string{"payment.paid", "payment.failed"}, 16))
	defer payCons.Close()
	pc := consumer.NewPaymentConsumer(orders, bookings, payCons, logger)
	must(0, pc.Run(ctx))
	logger.Info("payment consumer started", zap.String("queue", cfg.PaymentQueue))

	// low-stock sweep
	sweeper := service.NewLowStockWorker(products, disp, time.Duration(cfg.LowStockSweepMin)*time.Minute, logger)
	go sweeper.Run(ctx)

	r := transport.NewRouter(transport.Services{
		Auth:      authSvc,
		Inventory: inv,
		Orders:    orders,
		Notes:     noteSvc,
		Registry:  registry,
		Tokens:    tokens,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)
	_ = shutdownTracer(shutdownCtx)
	logger.Info("stopped")
}
