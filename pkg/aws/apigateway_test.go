package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/usage-metering/pkg/aws/awstest"
	"github.com/operator-framework/usage-metering/pkg/usage"
)

func TestListUsagePlansPaginates(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	api.PageSize = 2
	api.AddPlan("p1", "gold")
	api.AddPlan("p2", "silver")
	api.AddPlan("p3", "bronze")

	plans, err := NewUsagePlans(api).ListUsagePlans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []usage.UsagePlan{
		{ID: "p1", Name: "gold"},
		{ID: "p2", Name: "silver"},
		{ID: "p3", Name: "bronze"},
	}, plans)
}

func TestListUsagePlansError(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	api.PlansErr = errors.New("AccessDeniedException")

	_, err := NewUsagePlans(api).ListUsagePlans(context.Background())
	assert.EqualError(t, err, "could not list usage plans: AccessDeniedException")
}

func TestListUsagePlanKeys(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	api.PageSize = 1
	api.AddPlan("p1", "gold", awstest.Key("k1", "customer-a"), awstest.Key("k2", "customer-b"))
	api.AddPlan("p2", "silver")
	api.KeysErr["p3"] = errors.New("TooManyRequestsException")

	source := NewUsagePlans(api)

	creds, err := source.ListUsagePlanKeys(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []usage.Credential{
		{ID: "k1", Name: "customer-a"},
		{ID: "k2", Name: "customer-b"},
	}, creds)

	creds, err = source.ListUsagePlanKeys(context.Background(), "p2")
	require.NoError(t, err)
	assert.Empty(t, creds)

	_, err = source.ListUsagePlanKeys(context.Background(), "p3")
	assert.EqualError(t, err, "could not list keys of usage plan 'p3': TooManyRequestsException")
}

func TestGetUsage(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	api.Usage[awstest.UsageKey("p1", "k1")] = map[string][][]*int64{
		"2020-03-10": {aws.Int64Slice([]int64{150, 850})},
		"2020-03-11": {{nil, aws.Int64(1000)}},
	}

	start := time.Date(2020, 3, 10, 23, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	items, err := NewUsagePlans(api).GetUsage(context.Background(), "p1", "k1", start, end)
	require.NoError(t, err)

	require.Len(t, api.UsageInputs, 1)
	assert.Equal(t, "2020-03-10", aws.StringValue(api.UsageInputs[0].StartDate))
	assert.Equal(t, "2020-03-11", aws.StringValue(api.UsageInputs[0].EndDate))
	assert.Equal(t, "p1", aws.StringValue(api.UsageInputs[0].UsagePlanId))
	assert.Equal(t, "k1", aws.StringValue(api.UsageInputs[0].KeyId))

	assert.Equal(t, usage.Observation{Date: "2020-03-10", Value: 150, Present: true}, items.Observation("2020-03-10"))
	obs := items.Observation("2020-03-11")
	assert.Equal(t, int64(1000), obs.Value, "null values are dropped from the tuple")
}

func TestGetUsageEmpty(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	items, err := NewUsagePlans(api).GetUsage(context.Background(), "p1", "k1", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetUsageError(t *testing.T) {
	api := awstest.NewMockAPIGateway()
	api.UsageErr[awstest.UsageKey("p1", "k1")] = errors.New("BadRequestException")
	_, err := NewUsagePlans(api).GetUsage(context.Background(), "p1", "k1", time.Now(), time.Now())
	assert.EqualError(t, err, "could not get usage of key 'k1' for usage plan 'p1': BadRequestException")
}
