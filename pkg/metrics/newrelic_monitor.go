package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewRelicMonitor starts transactions that the instrumented elasticsearch
// transport attaches its segments to. A nil monitor does nothing.
type NewRelicMonitor struct {
	app *newrelic.Application
}

// InitNewRelicMonitor returns a nil monitor when monitoring is disabled
func InitNewRelicMonitor(cfg NewRelicConfig, logger log.Logger) (*NewRelicMonitor, error) {
	if !cfg.Enabled {
		logger.Debug("new relic monitoring is disabled")
		return nil, nil
	}
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create new relic application: %w", err)
	}
	logger.Info("new relic monitoring is enabled", "app", cfg.AppName)

	return NewNewRelicMonitor(app), nil
}

func NewNewRelicMonitor(app *newrelic.Application) *NewRelicMonitor {
	return &NewRelicMonitor{
		app: app,
	}
}

func (mon *NewRelicMonitor) Application() *newrelic.Application {
	if mon != nil {
		return mon.app
	}
	return nil
}

func (mon *NewRelicMonitor) StartTransaction(ctx context.Context, operation string) (context.Context, func()) {
	if mon == nil || mon.app == nil {
		return ctx, func() {}
	}

	txn := mon.app.StartTransaction(operation)
	ctx = newrelic.NewContext(ctx, txn)

	return ctx, func() {
		txn.End()
	}
}

// Shutdown flushes pending data, waiting at most timeout
func (mon *NewRelicMonitor) Shutdown(timeout time.Duration) {
	if mon == nil || mon.app == nil {
		return
	}
	mon.app.Shutdown(timeout)
}
