package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stripe-checkout-orders/config"
	"stripe-checkout-orders/internal/services/orders"
	"stripe-checkout-orders/internal/services/page"
	"stripe-checkout-orders/internal/services/payments"
	"stripe-checkout-orders/internal/services/payments/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.AppConfig) error {
	pg, err := page.Load(cfg.Page.TemplatePath)
	if err != nil {
		return err
	}

	store, err := orders.New(ctx, cfg.Orders, cfg.FirestoreProject())
	if err != nil {
		return fmt.Errorf("opening order store: %w", err)
	}
	defer store.Close()

	stripePaymentProvider := payments.NewStripeProvider(cfg.Stripe, cfg.Checkout)
	h := handler.NewHandler(cfg, stripePaymentProvider, store, pg)

	srv := &http.Server{
		Addr:              cfg.Http.Addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("Server running on %s", cfg.Http.Addr), "order_store", cfg.Orders.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}
