package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/operator-framework/usage-metering/pkg/handler"
	"github.com/operator-framework/usage-metering/pkg/usage"
)

var (
	runAt        string
	printSummary bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "reconciles the hour that just ended once and exits",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().StringVar(&runAt, "at", "", "if non-empty, an RFC3339 timestamp or unix seconds used instead of the current time to pick the hour to reconcile")
	runCmd.Flags().BoolVar(&printSummary, "print-summary", false, "print the run summary as JSON to stdout")
}

// atRunner reconciles the hour before a fixed time.
type atRunner struct {
	driver *usage.Driver
	at     time.Time
}

func (r atRunner) Run(ctx context.Context) (*usage.RunSummary, error) {
	return r.driver.RunAt(ctx, r.at)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	runner := driverRunner
	if runAt != "" {
		at, err := usage.ParseTime(runAt)
		if err != nil {
			return fmt.Errorf("invalid --at: %v", err)
		}
		runner = func(d *usage.Driver) handler.Runner {
			return atRunner{driver: d, at: at}
		}
	}

	h, err := newHandler(logger, runner)
	if err != nil {
		return err
	}

	ctx := setupSignals(logger)
	runSummary, resp, err := h.Invoke(ctx)
	if printSummary && runSummary != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if eerr := enc.Encode(runSummary); eerr != nil {
			logger.WithError(eerr).Warn("unable to print run summary")
		}
	}
	if err != nil {
		return err
	}
	logger.Infof("%d: %s", resp.StatusCode, resp.Body)
	return nil
}
