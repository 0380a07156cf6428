package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"github.com/operator-framework/usage-metering/pkg/usage"
)

const (
	// DefaultNamespace is the CloudWatch namespace usage metrics are written to.
	DefaultNamespace = "ApiGateway/UsagePlans"

	UsagePlanDimension = "UsagePlan"
	APIKeyDimension    = "APIKey"

	standardResolutionSeconds = 60
	highResolutionSeconds     = 1

	metricDataQueryID = "usage"
)

// Metrics implements usage.MetricsBackend against CloudWatch.
type Metrics struct {
	api            cloudwatchiface.CloudWatchAPI
	namespace      string
	highResolution bool
}

var _ usage.MetricsBackend = (*Metrics)(nil)

// NewMetrics writes to and reads from the given namespace. When
// highResolution is set, data points are stored with one second resolution.
func NewMetrics(api cloudwatchiface.CloudWatchAPI, namespace string, highResolution bool) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Metrics{
		api:            api,
		namespace:      namespace,
		highResolution: highResolution,
	}
}

func dimensions(planName, credentialName string) []*cloudwatch.Dimension {
	return []*cloudwatch.Dimension{
		{Name: aws.String(UsagePlanDimension), Value: aws.String(planName)},
		{Name: aws.String(APIKeyDimension), Value: aws.String(credentialName)},
	}
}

// GetMetricMaximums returns the per-period maximums of the queried series
// in ascending timestamp order.
func (m *Metrics) GetMetricMaximums(ctx context.Context, query usage.MetricQuery) ([]float64, error) {
	period := query.Period
	if period <= 0 {
		period = usage.DefaultLookbackPeriod
	}

	input := &cloudwatch.GetMetricDataInput{
		MetricDataQueries: []*cloudwatch.MetricDataQuery{{
			Id: aws.String(metricDataQueryID),
			MetricStat: &cloudwatch.MetricStat{
				Metric: &cloudwatch.Metric{
					Namespace:  aws.String(m.namespace),
					MetricName: aws.String(query.MetricName),
					Dimensions: dimensions(query.PlanName, query.CredentialName),
				},
				Period: aws.Int64(int64(period / time.Second)),
				Stat:   aws.String(cloudwatch.StatisticMaximum),
			},
		}},
		StartTime: aws.Time(query.Start),
		EndTime:   aws.Time(query.End),
		ScanBy:    aws.String(cloudwatch.ScanByTimestampAscending),
	}

	var values []float64
	pageFn := func(out *cloudwatch.GetMetricDataOutput, lastPage bool) bool {
		for _, res := range out.MetricDataResults {
			if aws.StringValue(res.Id) != metricDataQueryID {
				continue
			}
			values = append(values, aws.Float64ValueSlice(res.Values)...)
		}
		return true
	}

	if err := m.api.GetMetricDataPagesWithContext(ctx, input, pageFn); err != nil {
		return nil, fmt.Errorf("could not get metric data for %s in namespace '%s': %v", query.MetricName, m.namespace, err)
	}
	return values, nil
}

// PutMetric publishes a single Count data point.
func (m *Metrics) PutMetric(ctx context.Context, metric usage.PublishedMetric) error {
	resolution := int64(standardResolutionSeconds)
	if m.highResolution {
		resolution = highResolutionSeconds
	}

	datum := &cloudwatch.MetricDatum{
		MetricName:        aws.String(metric.MetricName),
		Value:             aws.Float64(float64(metric.Value)),
		Unit:              aws.String(cloudwatch.StandardUnitCount),
		StorageResolution: aws.Int64(resolution),
		Dimensions:        dimensions(metric.PlanName, metric.CredentialName),
	}
	if !metric.Timestamp.IsZero() {
		datum.Timestamp = aws.Time(metric.Timestamp)
	}

	_, err := m.api.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []*cloudwatch.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("could not put metric %s in namespace '%s': %v", metric.MetricName, m.namespace, err)
	}
	return nil
}
