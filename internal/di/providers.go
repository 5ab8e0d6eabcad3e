package di

import (
	"context"
	"fmt"
	"time"

	"stockview/internal/domain/repository"
	"stockview/internal/handler/api"
	internalrepo "stockview/internal/repository"
	"stockview/internal/service/directory"
	"stockview/internal/service/nse"
	"stockview/internal/usecase"
	"stockview/pkg/cache"
	pkgch "stockview/pkg/clickhouse"
	"stockview/pkg/config"
	pkgkafka "stockview/pkg/kafka"
	applogger "stockview/pkg/logger"
	"stockview/pkg/metrics"
	"stockview/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDirectory loads the securities snapshot into memory.
func ProvideDirectory(cfg *config.Config) (*directory.Directory, error) {
	dir, err := directory.Load(cfg.Directory.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("directory snapshot: %w", err)
	}
	return dir, nil
}

// ProvideQuoteProvider creates the NSE exchange client.
func ProvideQuoteProvider(cfg *config.Config) repository.QuoteProvider {
	return nse.New(cfg.NSE.BaseURL, cfg.NSE.Timeout)
}

// ProvideRedisStore creates the Redis document store.
func ProvideRedisStore(cfg *config.Config) (*cache.RedisStore, error) {
	store, err := cache.NewRedisStore(
		cache.WithAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithPassword(cfg.Redis.Password),
		cache.WithDB(cfg.Redis.DB),
		cache.WithPool(cfg.Redis.PoolSize, cfg.Redis.PoolTimeout, cfg.Redis.MinIdleConns),
		cache.WithPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	return store, nil
}

// ProvideClickHouseClient creates a ClickHouse client and applies the candle
// schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + ".daily_candles"
	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the shared Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates the quote-topic consumer for alert watching.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideWishlistStore creates the Redis-backed wishlist repository.
func ProvideWishlistStore(store *cache.RedisStore) repository.WishlistStore {
	return internalrepo.NewRedisWishlistStore(store)
}

// ProvideAlertStore creates the Redis-backed alert repository.
func ProvideAlertStore(store *cache.RedisStore) repository.AlertStore {
	return internalrepo.NewRedisAlertStore(store)
}

// ProvideCandleStore creates the ClickHouse candle repository.
func ProvideCandleStore(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.CandleStore {
	s := internalrepo.NewCHCandleStore(client.DB(), cfg.ClickHouse.Database+".daily_candles")
	s.SetLogger(l)
	return s
}

// ProvideEventPublisher creates the Kafka event publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.QuotePublisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.QuotesTopic, cfg.Kafka.AlertsTopic)
}

// ProvideQuoteFetcher creates the retrying quote fetcher.
func ProvideQuoteFetcher(provider repository.QuoteProvider, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.QuoteFetcher {
	return usecase.NewQuoteFetcher(provider, m, l, cfg.NSE.MaxAttempts, cfg.NSE.RetryDelay)
}

// ProvideHistoryService creates the candle history service.
func ProvideHistoryService(provider repository.QuoteProvider, store repository.CandleStore, l *applogger.Logger, cfg *config.Config) *usecase.HistoryService {
	return usecase.NewHistoryService(provider, store, l, cfg.History.Days, cfg.History.MaxStale)
}

// ProvideAlertRecorder creates the alert recorder use case.
func ProvideAlertRecorder(store repository.AlertStore, m repository.Metrics, l *applogger.Logger) *usecase.AlertRecorder {
	return usecase.NewAlertRecorder(store, m, l)
}

// ProvideWishlistReconciler creates the wishlist reconciler use case.
func ProvideWishlistReconciler(store repository.WishlistStore, m repository.Metrics, l *applogger.Logger) *usecase.WishlistReconciler {
	return usecase.NewWishlistReconciler(store, m, l)
}

// ProvideDashboardRefresher creates the periodic dashboard refresh job.
func ProvideDashboardRefresher(fetcher *usecase.QuoteFetcher, pub repository.QuotePublisher, l *applogger.Logger, cfg *config.Config) *usecase.DashboardRefresher {
	return usecase.NewDashboardRefresher(fetcher, pub, l, cfg.Dashboard.Symbols, cfg.Dashboard.RefreshInterval)
}

// ProvideAlertWatcher creates the quote-topic alert watcher.
func ProvideAlertWatcher(alerts repository.AlertStore, pub repository.QuotePublisher, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.AlertWatcher {
	return usecase.NewAlertWatcher(cfg.Kafka.QuotesTopic, alerts, pub, m, l)
}

// ProvideStockHandler creates the stock API handler.
func ProvideStockHandler(
	dir *directory.Directory,
	fetcher *usecase.QuoteFetcher,
	history *usecase.HistoryService,
	recorder *usecase.AlertRecorder,
	reconciler *usecase.WishlistReconciler,
	refresher *usecase.DashboardRefresher,
	wishlist repository.WishlistStore,
	candles repository.CandleStore,
	cfg *config.Config,
	l *applogger.Logger,
) *api.StockEchoHandler {
	return api.NewStockEchoHandler(dir, fetcher, history, recorder, reconciler, refresher, wishlist, candles, cfg.Directory.SearchLimit, l)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.StockEchoHandler,
	refresher *usecase.DashboardRefresher,
	consumer *pkgkafka.Consumer,
	watcher *usecase.AlertWatcher,
	publisher repository.QuotePublisher,
	redisStore *cache.RedisStore,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, refresher, consumer, watcher, publisher, redisStore, chClient)
}
