package usage_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/usage-metering/pkg/usage"
	"github.com/operator-framework/usage-metering/pkg/usage/mockusage"
)

func TestResolverResolve(t *testing.T) {
	queryErr := errors.New("RequestCanceled: request context canceled")

	tests := map[string]struct {
		values   []float64
		err      error
		expected usage.PreviousValue
		logged   bool
	}{
		"latest bucket wins": {
			values:   []float64{40, 75},
			expected: usage.PreviousValue{Value: 75, Status: usage.LookupFound},
		},
		"empty series resolves to zero": {
			values:   nil,
			expected: usage.PreviousValue{Value: 0, Status: usage.LookupNotFound},
		},
		"query failure resolves to zero": {
			err:      queryErr,
			expected: usage.PreviousValue{Value: 0, Status: usage.LookupFailed, Err: queryErr},
			logged:   true,
		},
		"NaN resolves to zero": {
			values:   []float64{math.NaN()},
			expected: usage.PreviousValue{Value: 0, Status: usage.LookupFound},
		},
	}

	for testName, tt := range tests {
		testName := testName
		tt := tt
		t.Run(testName, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger, hook := logtest.NewNullLogger()
			metrics := mockusage.NewMockMetricsBackend(ctrl)
			metrics.EXPECT().GetMetricMaximums(gomock.Any(), previousQuery(usage.DefaultCumulativeMetricName)).Return(tt.values, tt.err).Times(1)

			resolver := usage.NewResolver(logger, metrics, usage.DefaultConfig())
			prev := resolver.Resolve(context.Background(), testPlan.Name, testKey.Name, testHour)
			assert.Equal(t, tt.expected, prev)

			if tt.logged {
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
				assert.Equal(t, queryErr, hook.LastEntry().Data[logrus.ErrorKey])
			} else {
				assert.Nil(t, hook.LastEntry())
			}
		})
	}
}

func TestResolverRequestTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := usage.DefaultConfig()
	cfg.RequestTimeout = time.Minute

	logger, _ := logtest.NewNullLogger()
	metrics := mockusage.NewMockMetricsBackend(ctrl)
	metrics.EXPECT().GetMetricMaximums(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, q usage.MetricQuery) ([]float64, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "request context should carry a deadline")
		return []float64{1}, nil
	})

	resolver := usage.NewResolver(logger, metrics, cfg)
	prev := resolver.Resolve(context.Background(), testPlan.Name, testKey.Name, testHour)
	assert.Equal(t, usage.LookupFound, prev.Status)
}
