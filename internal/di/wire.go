//go:build wireinject
// +build wireinject

package di

import (
	"StockScout/pkg/config"
	"StockScout/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideResultCache,
		ProvideHistoryProvider,
		ProvideOracleClient,
		ProvideMatchPublisher,
		ProvideRunArchive,

		// Use cases
		ProvidePreFilter,
		ProvideClassifier,
		ProvideEngine,

		// HTTP
		ProvideScreeningHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
