package di

import (
	"context"
	"fmt"
	"time"

	"StabTrade/internal/domain/repository"
	domsvc "StabTrade/internal/domain/service"
	"StabTrade/internal/handler/api"
	internalrepo "StabTrade/internal/repository"
	icache "StabTrade/internal/service/cache"
	"StabTrade/internal/service/ratelimit"
	"StabTrade/internal/services/stability"
	"StabTrade/internal/usecase"
	pkgch "StabTrade/pkg/clickhouse"
	"StabTrade/pkg/config"
	xhttp "StabTrade/pkg/http"
	pkgkafka "StabTrade/pkg/kafka"
	"StabTrade/pkg/logger"
	"StabTrade/pkg/metrics"
	"StabTrade/pkg/server"
	"StabTrade/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEstimator creates the stability estimator for the configured window.
func ProvideEstimator(cfg *config.Config) domsvc.StabilityEstimator {
	return stability.NewEstimator(cfg.Strategy.Window)
}

// ProvideDecisionEngine creates the decision rule with configured thresholds.
func ProvideDecisionEngine(cfg *config.Config) domsvc.DecisionEngine {
	return stability.NewDecisionEngine(cfg.Strategy.InvestThresh, cfg.Strategy.StopLossThresh)
}

// ProvideDayEvaluator creates the per-day evaluator.
func ProvideDayEvaluator(
	est domsvc.StabilityEstimator,
	engine domsvc.DecisionEngine,
	m repository.Metrics,
	cfg *config.Config,
	l *logger.Logger,
) *usecase.DayEvaluator {
	ev := usecase.NewDayEvaluator(est, engine, m, cfg.Strategy.Workers, cfg.Strategy.OnError)
	ev.SetLogger(l)
	return ev
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema
// exists. It returns nil when clickhouse.host is empty.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(cfg.ClickHouse)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when the kafka sink
// is not configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.HasSink(config.SinkKafka) {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(cfg.Kafka.ProducerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideBarSource selects the bar source named by input.type.
func ProvideBarSource(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (repository.BarSource, error) {
	switch cfg.Input.Type {
	case "clickhouse":
		if ch == nil {
			return nil, fmt.Errorf("bar source: clickhouse client is not configured")
		}
		s := internalrepo.NewCHBarStore(ch)
		s.SetLogger(l)
		return s, nil
	default:
		s := internalrepo.NewCSVBarSource(cfg.Input.Path, cfg.Location())
		s.SetLogger(l)
		return s, nil
	}
}

// ProvideYieldProcessor builds one sink per output.sinks entry.
func ProvideYieldProcessor(
	cfg *config.Config,
	m repository.Metrics,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	l *logger.Logger,
) (*usecase.YieldProcessor, error) {
	sinks := make([]repository.YieldSink, 0, len(cfg.Output.Sinks))
	for _, name := range cfg.Output.Sinks {
		switch name {
		case config.SinkXLSX:
			sinks = append(sinks, internalrepo.NewXLSXSink(cfg.Output.XLSXPath, cfg.Output.SheetName, cfg.Output.Detailed))
		case config.SinkClickHouse:
			if ch == nil {
				return nil, fmt.Errorf("yield sink: clickhouse client is not configured")
			}
			sinks = append(sinks, internalrepo.NewCHYieldStore(ch))
		case config.SinkKafka:
			if producer == nil {
				return nil, fmt.Errorf("yield sink: kafka producer is not configured")
			}
			sinks = append(sinks, internalrepo.NewKafkaYieldPublisher(producer, cfg.Kafka.Topic))
		default:
			return nil, fmt.Errorf("yield sink: unknown sink %s", name)
		}
	}
	p := usecase.NewYieldProcessor(m, sinks...)
	p.SetLogger(l)
	return p, nil
}

// ProvideBatchPipeline creates the batch pipeline over the configured range.
func ProvideBatchPipeline(
	cfg *config.Config,
	source repository.BarSource,
	evaluator *usecase.DayEvaluator,
	processor *usecase.YieldProcessor,
	l *logger.Logger,
) *usecase.BatchPipeline {
	loc := cfg.Location()
	from, to := util.DayBounds(cfg.Input.From, cfg.Input.To, loc)
	p := usecase.NewBatchPipeline(source, evaluator, processor, cfg.Strategy.Symbol, from, to, loc)
	p.SetLogger(l)
	return p
}

// ProvideCache layers memory over Redis when enabled and falls back to the
// in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		redis := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		return icache.NewLayeredCache(redis, 5*time.Second)
	}
	return icache.NewTTLCache()
}

// ProvideRateLimiter creates the per-client token bucket limiter.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateBurst, cfg.Server.RateLimit)
}

// ProvideStabilityHandler creates the HTTP handler.
func ProvideStabilityHandler(
	cfg *config.Config,
	l *logger.Logger,
	est domsvc.StabilityEstimator,
	engine domsvc.DecisionEngine,
	evaluator *usecase.DayEvaluator,
	cache icache.BytesCache,
) *api.StabilityEchoHandler {
	return api.NewStabilityEchoHandler(l, est, engine, evaluator, cache, cfg.Server.CacheTTL)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(
	cfg *config.Config,
	h *api.StabilityEchoHandler,
	limiter *ratelimit.Limiter,
	ch *pkgch.Client,
	l *logger.Logger,
) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath, nil, nil),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
	}
	if cfg.Server.RateLimit > 0 {
		opts = append(opts, xhttp.WithRateLimit(limiter.Allow))
	}
	if ch != nil {
		opts = append(opts, xhttp.WithHealthCheck("clickhouse", ch.Health))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config, l *logger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(cfg.Kafka.ConsumerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.SetLogger(l)
	return consumer, nil
}

// ProvideKafkaDaysHandler creates the handler for the day topic.
func ProvideKafkaDaysHandler(
	cfg *config.Config,
	evaluator *usecase.DayEvaluator,
	processor *usecase.YieldProcessor,
	m repository.Metrics,
) *usecase.KafkaDaysHandler {
	return usecase.NewKafkaDaysHandler(cfg.Kafka.Consumer.Topic, evaluator, processor, m, cfg.Location())
}

// ProvideApp creates the long-running service.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaDaysHandler,
	processor *usecase.YieldProcessor,
	ch *pkgch.Client,
) *server.App {
	return server.New(cfg, l, srv, consumer, kh, processor, ch)
}

// ProvideBatch creates the one-shot batch runner.
func ProvideBatch(
	l *logger.Logger,
	pipeline *usecase.BatchPipeline,
	source repository.BarSource,
	processor *usecase.YieldProcessor,
	ch *pkgch.Client,
) *server.Batch {
	return server.NewBatch(l, pipeline, source, processor, ch)
}

// ProvideIngest creates the CSV to ClickHouse bar loader.
func ProvideIngest(cfg *config.Config, ch *pkgch.Client, l *logger.Logger) (*server.Ingest, error) {
	if ch == nil {
		return nil, fmt.Errorf("ingest: clickhouse client is not configured")
	}
	src := internalrepo.NewCSVBarSource(cfg.Input.Path, cfg.Location())
	src.SetLogger(l)
	store := internalrepo.NewCHBarStore(ch)
	store.SetLogger(l)
	return server.NewIngest(l, src, store, ch, cfg.Strategy.Symbol), nil
}
