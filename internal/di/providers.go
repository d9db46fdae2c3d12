package di

import (
	"context"
	"fmt"
	"time"

	"StockScout/internal/domain/repository"
	domsvc "StockScout/internal/domain/service"
	"StockScout/internal/handler/api"
	internalrepo "StockScout/internal/repository"
	icache "StockScout/internal/service/cache"
	"StockScout/internal/services/marketdata"
	"StockScout/internal/services/oracle"
	"StockScout/internal/usecase"
	pkgch "StockScout/pkg/clickhouse"
	"StockScout/pkg/config"
	pkgkafka "StockScout/pkg/kafka"
	applogger "StockScout/pkg/logger"
	"StockScout/pkg/metrics"
	"StockScout/pkg/server"
)

// ProvideLogger creates the application logger from config. With Kafka
// enabled, error logs are aggregated and shipped through the shared producer.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "info", Format: "json", Output: "stdout"}
	if cfg.Environment == "development" {
		lc.Level = "debug"
		lc.Format = "console"
	}
	l, err := applogger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      internalrepo.NewLogPublisher(producer),
		})
	}
	return l, nil
}

// ProvideKafkaProducer creates the shared Kafka producer, or nil when Kafka
// is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideResultCache creates the classification result cache, Redis-backed
// when enabled, in-process TTL map otherwise.
func ProvideResultCache(cfg *config.Config) *icache.ResultCache {
	var store icache.BytesCache
	if cfg.Redis.Enabled {
		store = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	} else {
		store = icache.NewTTLCache()
	}
	return icache.NewResultCache(store, cfg.Screening.CacheTTL)
}

// ProvideHistoryProvider creates the market data history client.
func ProvideHistoryProvider(cfg *config.Config) domsvc.HistoryProvider {
	return marketdata.NewClient(cfg)
}

// ProvideOracleClient creates the LLM oracle client.
func ProvideOracleClient(cfg *config.Config) domsvc.OracleClient {
	return oracle.NewClient(cfg)
}

// ProvideClassifier creates the per-candidate classifier with the default
// time-seeded RNG for the fallback policy.
func ProvideClassifier(
	oc domsvc.OracleClient,
	cache *icache.ResultCache,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.StockClassifier {
	return usecase.NewStockClassifier(oc, cache, nil, m, l)
}

// ProvidePreFilter creates the keyword prefilter.
func ProvidePreFilter(cfg *config.Config) *usecase.PreFilter {
	ratio := cfg.Screening.PrefilterRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.7
	}
	return usecase.NewPreFilter(ratio)
}

// ProvideMatchPublisher creates the Kafka match publisher, or nil when Kafka
// is disabled.
func ProvideMatchPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.MatchPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaMatchPublisher(producer, cfg.Kafka.Topic)
}

// ProvideRunArchive creates the ClickHouse run archive, or nil when
// ClickHouse is disabled. The runs table is created up front.
func ProvideRunArchive(cfg *config.Config, l *applogger.Logger) (repository.RunArchive, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive := internalrepo.NewCHRunArchive(client)
	archive.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideEngine creates the screening engine with optional downstream wiring.
func ProvideEngine(
	classifier *usecase.StockClassifier,
	prefilter *usecase.PreFilter,
	m repository.Metrics,
	l *applogger.Logger,
	publisher repository.MatchPublisher,
	archive repository.RunArchive,
	cfg *config.Config,
) *usecase.ScreeningEngine {
	opts := []usecase.EngineOption{usecase.WithBatchSize(cfg.Screening.BatchSize)}
	if publisher != nil {
		opts = append(opts, usecase.WithMatchPublisher(publisher))
	}
	if archive != nil {
		opts = append(opts, usecase.WithRunArchive(archive))
	}
	return usecase.NewScreeningEngine(classifier, prefilter, m, l, opts...)
}

// ProvideScreeningHandler creates the HTTP handler for the screening API.
func ProvideScreeningHandler(
	l *applogger.Logger,
	engine *usecase.ScreeningEngine,
	history domsvc.HistoryProvider,
) *api.ScreeningEchoHandler {
	return api.NewScreeningEchoHandler(l, engine, history)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.ScreeningEngine,
	handler *api.ScreeningEchoHandler,
	publisher repository.MatchPublisher,
	archive repository.RunArchive,
) *server.App {
	return server.New(cfg, l, engine, handler, publisher, archive)
}
