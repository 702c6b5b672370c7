package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/cart"
	"github.com/nikolayk812/checkout-demo/internal/config"
	"github.com/nikolayk812/checkout-demo/internal/gateway"
	"github.com/nikolayk812/checkout-demo/internal/logger"
	"github.com/nikolayk812/checkout-demo/internal/metrics"
	"github.com/nikolayk812/checkout-demo/internal/notify"
	"github.com/nikolayk812/checkout-demo/internal/order"
	"github.com/nikolayk812/checkout-demo/internal/payment"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/nikolayk812/checkout-demo/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the components a command needs. Built per invocation and closed
// when the command returns.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	pool    *pgxpool.Pool

	closers []func() error
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("logger.New: %w", err)
	}

	return cfg, log, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		metrics: metrics.New(prometheus.NewRegistry()),
		pool:    pool,
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	}, func() error {
		// stderr may not support fsync
		_ = log.Sync()
		return nil
	})

	return a, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (a *app) ledger() port.InventoryLedger {
	return repository.NewInventoryLedger(a.pool)
}

func (a *app) orders() port.OrderRepository {
	return repository.NewOrder(a.pool)
}

func (a *app) cartCache() cart.Cache {
	if a.cfg.Redis.Addr == "" {
		return cart.NopCache{}
	}

	client := redis.NewClient(&redis.Options{Addr: a.cfg.Redis.Addr})
	a.closers = append(a.closers, client.Close)

	return cart.NewRedisCache(client, a.cfg.Redis.CartTTL)
}

func (a *app) cartService() *cart.Service {
	return cart.NewService(repository.NewCart(a.pool), repository.NewCatalog(a.pool), a.cartCache(), a.logger)
}

func (a *app) aggregator() (*cart.Aggregator, error) {
	pricing, err := a.cfg.Pricing()
	if err != nil {
		return nil, err
	}
	return cart.NewAggregator(repository.NewCart(a.pool), repository.NewCatalog(a.pool), pricing, a.logger), nil
}

func (a *app) workflow() (*order.Workflow, error) {
	agg, err := a.aggregator()
	if err != nil {
		return nil, err
	}

	return order.NewWorkflow(repository.NewTransactor(a.pool), a.orders(), agg, a.logger,
		order.WithMetrics(a.metrics),
		order.WithCartInvalidator(a.cartService()),
	), nil
}

func (a *app) notifier() (port.Notifier, error) {
	if a.cfg.Kafka.Brokers == "" {
		return notify.NewLogDispatcher(a.logger), nil
	}

	writer, err := notify.NewKafkaWriter(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic)
	if err != nil {
		return nil, fmt.Errorf("notify.NewKafkaWriter: %w", err)
	}
	a.closers = append(a.closers, writer.Close)

	return notify.NewKafkaDispatcher(writer, a.cfg.Kafka.WriteTimeout, a.logger), nil
}

func (a *app) engine() (*payment.Engine, error) {
	gw, err := gateway.NewClient(gateway.Config{
		BaseURL:         a.cfg.Gateway.BaseURL,
		KeyID:           a.cfg.Gateway.KeyID,
		KeySecret:       a.cfg.Gateway.KeySecret,
		Timeout:         a.cfg.Gateway.Timeout,
		BreakerFailures: a.cfg.Gateway.BreakerFailures,
		BreakerTimeout:  a.cfg.Gateway.BreakerTimeout,
	}, a.metrics, a.logger)
	if err != nil {
		return nil, fmt.Errorf("gateway.NewClient: %w", err)
	}

	wf, err := a.workflow()
	if err != nil {
		return nil, err
	}

	n, err := a.notifier()
	if err != nil {
		return nil, err
	}

	return payment.NewEngine(payment.Deps{
		Tx:       repository.NewTransactor(a.pool),
		Orders:   a.orders(),
		Payments: repository.NewPayment(a.pool),
		Catalog:  repository.NewCatalog(a.pool),
		Gateway:  gw,
		Workflow: wf,
		Notifier: n,
		Metrics:  a.metrics,
		Logger:   a.logger,
	})
}

// withApp builds the app, runs fn and closes the app.
func withApp(ctx context.Context, fn func(a *app) error) (err error) {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	return fn(a)
}
