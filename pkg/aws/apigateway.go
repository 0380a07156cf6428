package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"

	"github.com/operator-framework/usage-metering/pkg/usage"
)

const (
	// maxPageSize is the number of items requested per page of the
	// API Gateway listing calls.
	maxPageSize = 500
)

// UsagePlans implements usage.PlanSource and usage.UsageReader on top of the
// API Gateway usage plan APIs.
type UsagePlans struct {
	api apigatewayiface.APIGatewayAPI
}

var (
	_ usage.PlanSource  = (*UsagePlans)(nil)
	_ usage.UsageReader = (*UsagePlans)(nil)
)

func NewUsagePlans(api apigatewayiface.APIGatewayAPI) *UsagePlans {
	return &UsagePlans{api: api}
}

// ListUsagePlans returns every usage plan, following pagination.
func (u *UsagePlans) ListUsagePlans(ctx context.Context) ([]usage.UsagePlan, error) {
	var plans []usage.UsagePlan
	pageFn := func(out *apigateway.GetUsagePlansOutput, lastPage bool) bool {
		for _, item := range out.Items {
			plans = append(plans, usage.UsagePlan{
				ID:   aws.StringValue(item.Id),
				Name: aws.StringValue(item.Name),
			})
		}
		return true
	}

	err := u.api.GetUsagePlansPagesWithContext(ctx, &apigateway.GetUsagePlansInput{
		Limit: aws.Int64(maxPageSize),
	}, pageFn)
	if err != nil {
		return nil, fmt.Errorf("could not list usage plans: %v", err)
	}
	return plans, nil
}

// ListUsagePlanKeys returns every API key attached to the usage plan,
// following pagination.
func (u *UsagePlans) ListUsagePlanKeys(ctx context.Context, planID string) ([]usage.Credential, error) {
	var creds []usage.Credential
	pageFn := func(out *apigateway.GetUsagePlanKeysOutput, lastPage bool) bool {
		for _, item := range out.Items {
			creds = append(creds, usage.Credential{
				ID:   aws.StringValue(item.Id),
				Name: aws.StringValue(item.Name),
			})
		}
		return true
	}

	err := u.api.GetUsagePlanKeysPagesWithContext(ctx, &apigateway.GetUsagePlanKeysInput{
		UsagePlanId: aws.String(planID),
		Limit:       aws.Int64(maxPageSize),
	}, pageFn)
	if err != nil {
		return nil, fmt.Errorf("could not list keys of usage plan '%s': %v", planID, err)
	}
	return creds, nil
}

// GetUsage returns the usage recorded for the key under the plan on the
// dates of start and end. Null values in the response are dropped, which
// leaves a shorter tuple for the caller to detect.
func (u *UsagePlans) GetUsage(ctx context.Context, planID, credentialID string, start, end time.Time) (usage.UsageItems, error) {
	items := usage.UsageItems{}
	pageFn := func(out *apigateway.Usage, lastPage bool) bool {
		for key, seq := range out.Items {
			for _, tuple := range seq {
				var values []int64
				for _, v := range tuple {
					if v != nil {
						values = append(values, *v)
					}
				}
				items[key] = append(items[key], values)
			}
		}
		return true
	}

	err := u.api.GetUsagePagesWithContext(ctx, &apigateway.GetUsageInput{
		UsagePlanId: aws.String(planID),
		KeyId:       aws.String(credentialID),
		StartDate:   aws.String(start.UTC().Format(usage.UsageDateFormat)),
		EndDate:     aws.String(end.UTC().Format(usage.UsageDateFormat)),
	}, pageFn)
	if err != nil {
		return nil, fmt.Errorf("could not get usage of key '%s' for usage plan '%s': %v", credentialID, planID, err)
	}
	return items, nil
}
