//go:build wireinject
// +build wireinject

package di

import (
	"stockview/pkg/config"
	"stockview/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Directory snapshot and exchange client
		ProvideDirectory,
		ProvideQuoteProvider,

		// Repositories
		ProvideWishlistStore,
		ProvideAlertStore,
		ProvideCandleStore,
		ProvideEventPublisher,

		// Use cases
		ProvideQuoteFetcher,
		ProvideHistoryService,
		ProvideAlertRecorder,
		ProvideWishlistReconciler,
		ProvideDashboardRefresher,
		ProvideAlertWatcher,

		// HTTP surface and application server
		ProvideStockHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
