//go:build wireinject
// +build wireinject

package di

import (
	"StabTrade/pkg/config"
	"StabTrade/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideEstimator,
	ProvideDecisionEngine,
	ProvideDayEvaluator,
)

var sinkSet = wire.NewSet(
	ProvideClickHouseClient,
	ProvideKafkaProducer,
	ProvideYieldProcessor,
)

// InitializeApp wires the HTTP service and the optional Kafka consumer.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		coreSet,
		sinkSet,

		ProvideCache,
		ProvideRateLimiter,
		ProvideStabilityHandler,
		ProvideHTTPServer,

		ProvideKafkaConsumer,
		ProvideKafkaDaysHandler,

		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeBatch wires a one-shot run over the configured input.
func InitializeBatch(cfg *config.Config) (*server.Batch, error) {
	wire.Build(
		coreSet,
		sinkSet,
		ProvideBarSource,
		ProvideBatchPipeline,
		ProvideBatch,
	)
	return &server.Batch{}, nil
}

// InitializeIngest wires the CSV to ClickHouse loader.
func InitializeIngest(cfg *config.Config) (*server.Ingest, error) {
	wire.Build(
		ProvideLogger,
		ProvideClickHouseClient,
		ProvideIngest,
	)
	return &server.Ingest{}, nil
}
