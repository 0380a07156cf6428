package main

import (
	"fmt"

	"github.com/raulk/clock"
	log "github.com/sirupsen/logrus"

	meteringaws "github.com/operator-framework/usage-metering/pkg/aws"
	"github.com/operator-framework/usage-metering/pkg/handler"
	"github.com/operator-framework/usage-metering/pkg/usage"
	"github.com/operator-framework/usage-metering/pkg/usage/summary"
)

// newDriver wires the AWS clients into a Driver.
func newDriver(logger log.FieldLogger, clients *meteringaws.Clients, clk clock.Clock) *usage.Driver {
	plans := meteringaws.NewUsagePlans(clients.APIGateway)
	metrics := meteringaws.NewMetrics(clients.CloudWatch, opts.namespace, opts.highResolution)
	return usage.NewDriver(logger, clk, opts.usage, plans, plans, metrics)
}

// newHandler builds the invocation handler from the command line options.
func newHandler(logger log.FieldLogger, runner func(*usage.Driver) handler.Runner) (*handler.Handler, error) {
	if err := opts.usage.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	if opts.usage.SingleSeries() {
		logger.Warnf("cumulative and hourly usage share the metric name %q, the previous value is read back from the hourly series", opts.usage.DeltaMetricName)
	}

	clients, err := meteringaws.NewClients(opts.region)
	if err != nil {
		return nil, err
	}
	store, err := summary.NewStore(opts.summaryStore, clients.S3)
	if err != nil {
		return nil, fmt.Errorf("invalid --summary-store: %v", err)
	}

	driver := newDriver(logger, clients, clock.New())
	return handler.New(logger, runner(driver), store), nil
}

func driverRunner(d *usage.Driver) handler.Runner {
	return d
}
