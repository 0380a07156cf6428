package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/operator-framework/usage-metering/pkg/usage"
	"github.com/operator-framework/usage-metering/pkg/usage/summary"
)

// SuccessMessage is the body returned once every usage plan is processed.
const SuccessMessage = "Successfully processed API usage metrics"

// Response is returned to the scheduler that invoked the handler.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Runner runs one reconciliation of the hour that just ended.
type Runner interface {
	Run(ctx context.Context) (*usage.RunSummary, error)
}

// Handler is the entry point invoked on an hourly cadence.
type Handler struct {
	logger logrus.FieldLogger
	runner Runner
	store  summary.Store
}

// New returns a Handler. store may be nil, in which case run summaries are
// not archived.
func New(logger logrus.FieldLogger, runner Runner, store summary.Store) *Handler {
	return &Handler{
		logger: logger.WithField("component", "handler"),
		runner: runner,
		store:  store,
	}
}

// Handle ignores the event payload. A failed run is returned as an error so
// the invoking scheduler can alert and retry the whole invocation.
func (h *Handler) Handle(ctx context.Context, event json.RawMessage) (Response, error) {
	_, resp, err := h.Invoke(ctx)
	return resp, err
}

// Invoke runs the reconciliation and archives its summary.
func (h *Handler) Invoke(ctx context.Context) (*usage.RunSummary, Response, error) {
	runSummary, err := h.runner.Run(ctx)
	if runSummary != nil && h.store != nil {
		if serr := h.store.Write(ctx, runSummary); serr != nil {
			h.logger.WithError(serr).Warnf("unable to store run summary")
		}
	}
	if err != nil {
		h.logger.WithError(err).Error("usage reconciliation failed")
		return runSummary, Response{StatusCode: http.StatusInternalServerError, Body: err.Error()}, err
	}

	h.logger.WithFields(logrus.Fields{
		"plans":          runSummary.Plans,
		"credentials":    runSummary.Credentials,
		"deltaPublished": runSummary.Count(usage.OutcomeDeltaPublished),
		"zeroPublished":  runSummary.Count(usage.OutcomeZeroPublished),
		"noData":         runSummary.Count(usage.OutcomeNoData),
		"errors":         runSummary.Count(usage.OutcomeError),
	}).Info("usage reconciliation finished")
	return runSummary, Response{StatusCode: http.StatusOK, Body: SuccessMessage}, nil
}
