package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rollbar/rollbar-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/coupon"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "checkout-service",
		Short:        "Serve the cart, coupon and order API",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			logger, err := logging.New(events.ServiceName, cfg.LogLevel, cfg.LogDevelopment)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("checkout-service stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	return cmd
}

func run(parent context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			return err
		}
	}

	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer database.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	reporter := rollbar.New(cfg.RollbarToken, cfg.Environment, version, "", "")
	reporter.SetEnabled(cfg.RollbarToken != "")
	defer reporter.Close()

	coupons := coupon.NewService(coupon.NewPostgresRepository(pool))
	carts := cart.NewService(
		cart.NewRepository(database),
		cart.NewPostgresCatalog(pool),
		coupons,
		cart.Pricing{TaxRate: cfg.TaxRate, Currency: cfg.Currency},
		logger.Named("cart"),
	)

	var notifier order.Notifier = notify.NewLogNotifier(logger.Named("notify"))
	if cfg.SendGridAPIKey != "" {
		notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, notify.DefaultHost, cfg.MailFrom, logger.Named("notify"))
	}

	var (
		publisher order.Publisher = events.NoopPublisher{}
		conn      *amqp.Connection
	)
	if cfg.RabbitMQEnabled {
		conn = events.MustDialRabbit(cfg.RabbitMQURL, logger)
		defer conn.Close()

		p, err := events.NewPublisher(conn, events.NewSequenceRepository(database))
		if err != nil {
			return err
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Warn("publisher close", zap.Error(err))
			}
		}()
		publisher = p
	} else {
		logger.Warn("rabbitmq disabled, events are not published and orders are not confirmed")
	}

	orders := order.NewService(order.NewRepository(database), carts, coupons, publisher, notifier, logger.Named("order"))

	if conn != nil {
		consumer, err := events.StartOrderProcessedConsumer(ctx, conn,
			events.OrderProcessedHandler(orders, events.NewDedupRepository(database), logger.Named("consumer")), logger.Named("consumer"))
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()
	}

	handler := httpapi.NewHandler(carts, orders, logger.Named("http"), cfg.RequestTimeout)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		JWTSecret:        cfg.JWTSecret,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Reporter:         reporter,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown", zap.Error(err))
	}
	return nil
}
