package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/usage-metering/cmd/helpers"
	meteringaws "github.com/operator-framework/usage-metering/pkg/aws"
	"github.com/operator-framework/usage-metering/pkg/usage"
)

const envPrefix = "USAGE_METERING"

// options are shared by every subcommand.
type options struct {
	log helpers.LogOptions

	region         string
	namespace      string
	highResolution bool
	summaryStore   string

	usage usage.Config
}

var (
	opts = options{usage: usage.DefaultConfig()}

	// legacyEnvVars maps the environment variables of the earlier Lambda
	// deployment onto flags.
	legacyEnvVars = map[string]string{
		"APIGATEWAY_METRICS_NAMESPACE": "metrics-namespace",
		"LOG_LEVEL":                    "log-level",
	}
)

var rootCmd = &cobra.Command{
	Use:           "usage-metering",
	Short:         "Publishes hourly API Gateway usage plan requests to CloudWatch",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := helpers.SetFlagsFromEnv(cmd.Flags(), envPrefix); err != nil {
			return err
		}
		return helpers.MapEnvVarToFlag(legacyEnvVars, cmd.Flags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if runningInLambda() {
			return startLambda(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	// globally set time to UTC
	time.Local = time.UTC

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.log.Level, "log-level", log.InfoLevel.String(), "log level")
	flags.BoolVar(&opts.log.FullTimestamp, "log-timestamp", true, "log full timestamp if true, otherwise log time since startup")
	flags.BoolVar(&opts.log.DisableTimestamp, "disable-timestamp", false, "disable timestamp logging")
	flags.BoolVar(&opts.log.JSON, "log-json", false, "log in JSON format")

	flags.StringVar(&opts.region, "region", "", "AWS region, if empty the SDK's environment and shared config are used")
	flags.StringVar(&opts.namespace, "metrics-namespace", meteringaws.DefaultNamespace, "the CloudWatch namespace usage metrics are written to and read from")
	flags.BoolVar(&opts.highResolution, "high-resolution", false, "store data points with one second resolution instead of one minute")
	flags.StringVar(&opts.summaryStore, "summary-store", "", "if non-empty, an s3://bucket/prefix or file:///dir URL where the summary of every run is written")

	flags.StringVar(&opts.usage.CumulativeMetricName, "cumulative-metric-name", usage.DefaultCumulativeMetricName, "metric name of the cumulative usage snapshots")
	flags.StringVar(&opts.usage.DeltaMetricName, "delta-metric-name", usage.DefaultDeltaMetricName, "metric name of the hourly usage. If equal to --cumulative-metric-name, only the hourly usage is written and read back")
	flags.DurationVar(&opts.usage.Lookback, "lookback", usage.DefaultLookback, "how far before the reconciled hour to search for the previous cumulative snapshot")
	flags.DurationVar(&opts.usage.LookbackPeriod, "lookback-period", usage.DefaultLookbackPeriod, "aggregation period of the previous cumulative snapshot query")
	flags.DurationVar(&opts.usage.RequestTimeout, "request-timeout", 0, "if non-zero, the timeout of each call to API Gateway and CloudWatch")

	rootCmd.AddCommand(runCmd, lambdaCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatalf("error executing command: %v", err)
	}
}

func newLogger() (log.FieldLogger, error) {
	logger, err := helpers.SetupLogger(opts.log, log.Fields{"app": "usage-metering"})
	if err != nil {
		return nil, err
	}
	logger.Debugf("config: %s", spew.Sprintf("%+v", opts))
	return logger, nil
}

func setupSignals(logger log.FieldLogger) context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		logger.Infof("got signal %s, performing shutdown", sig)
		cancel()
	}()
	return ctx
}
