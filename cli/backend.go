package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/goto/finder/core/metadata"
	"github.com/goto/finder/core/search"
	esStore "github.com/goto/finder/internal/store/elasticsearch"
	"github.com/goto/finder/internal/store/postgres"
	"github.com/goto/finder/pkg/metrics"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/log"
)

// backend holds the collaborators a command needs, built from config
type backend struct {
	logger    log.Logger
	statsd    *statsd.Reporter
	monitor   *metrics.NewRelicMonitor
	executor  search.Executor
	describer metadata.Describer

	closers []func() error
}

// initBackend builds the collaborators cfg selects. Whatever was opened
// before a failure is closed again.
func initBackend(cfg *Config) (_ *backend, err error) {
	logger := initLogger(cfg.LogLevel)
	b := &backend{logger: logger}
	defer func() {
		if err != nil {
			b.Close()
		}
	}()

	b.statsd, err = statsd.Init(logger, cfg.StatsD)
	if err != nil {
		return nil, fmt.Errorf("init statsd: %w", err)
	}
	b.closers = append(b.closers, b.statsd.Close)

	b.monitor, err = metrics.InitNewRelicMonitor(cfg.NewRelic, logger)
	if err != nil {
		return nil, err
	}

	switch cfg.Search.Backend {
	case backendPostgres:
		pgClient, err := initPostgres(logger, cfg.DB)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pgClient.Close)

		searchRepo, err := postgres.NewSearchRepository(pgClient, logger, b.statsd)
		if err != nil {
			return nil, fmt.Errorf("create new search repository: %w", err)
		}
		describeRepo, err := postgres.NewDescribeRepository(pgClient)
		if err != nil {
			return nil, fmt.Errorf("create new describe repository: %w", err)
		}
		b.executor = searchRepo
		b.describer = describeRepo
	case "", backendElasticsearch:
		esClient, err := initElasticsearch(logger, cfg.Elasticsearch, b.statsd)
		if err != nil {
			return nil, err
		}
		b.executor = esStore.NewSearchRepository(esClient, logger)
	default:
		return nil, fmt.Errorf("unsupported search backend %q", cfg.Search.Backend)
	}

	return b, nil
}

func (b *backend) Close() {
	b.monitor.Shutdown(5 * time.Second)
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			b.logger.Warn("close backend", "err", err)
		}
	}
}

func initLogger(logLevel string) *log.Logrus {
	logger := log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stderr),
	)
	return logger
}

func initElasticsearch(logger log.Logger, config esStore.Config, reporter *statsd.Reporter) (*esStore.Client, error) {
	esClient, err := esStore.NewClient(logger, config, esStore.WithStatsDReporter(reporter))
	if err != nil {
		return nil, fmt.Errorf("create new elasticsearch client: %w", err)
	}
	got, err := esClient.Init()
	if err != nil {
		return nil, fmt.Errorf("establish connection to elasticsearch: %w", err)
	}
	logger.Debug("connected to elasticsearch", "info", got)
	return esClient, nil
}

func initPostgres(logger log.Logger, config postgres.Config) (*postgres.Client, error) {
	pgClient, err := postgres.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres client: %w", err)
	}
	logger.Debug("connected to postgres server", "host", config.Host, "port", config.Port)

	return pgClient, nil
}
