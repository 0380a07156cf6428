// Package awstest provides in-memory fakes of the AWS APIs used for metering.
package awstest

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// MockAPIGateway serves usage plans, their keys and usage from memory. Plans
// and keys are returned in pages of PageSize items.
type MockAPIGateway struct {
	apigatewayiface.APIGatewayAPI

	PageSize int

	Plans []*apigateway.UsagePlan
	// Keys maps a usage plan ID to its keys.
	Keys map[string][]*apigateway.UsagePlanKey
	// Usage maps "planID/keyID" to the usage items returned for it.
	Usage map[string]map[string][][]*int64

	PlansErr error
	KeysErr  map[string]error
	UsageErr map[string]error

	mu          sync.Mutex
	UsageInputs []*apigateway.GetUsageInput
}

func NewMockAPIGateway() *MockAPIGateway {
	return &MockAPIGateway{
		Keys:     map[string][]*apigateway.UsagePlanKey{},
		Usage:    map[string]map[string][][]*int64{},
		KeysErr:  map[string]error{},
		UsageErr: map[string]error{},
	}
}

// AddPlan registers a plan with the given keys.
func (m *MockAPIGateway) AddPlan(id, name string, keys ...*apigateway.UsagePlanKey) {
	m.Plans = append(m.Plans, &apigateway.UsagePlan{Id: aws.String(id), Name: aws.String(name)})
	m.Keys[id] = append(m.Keys[id], keys...)
}

// Key builds a usage plan key.
func Key(id, name string) *apigateway.UsagePlanKey {
	return &apigateway.UsagePlanKey{Id: aws.String(id), Name: aws.String(name), Type: aws.String("API_KEY")}
}

// UsageKey is the index into Usage and UsageErr for a plan and key.
func UsageKey(planID, keyID string) string {
	return planID + "/" + keyID
}

func (m *MockAPIGateway) pages(n int) [][2]int {
	size := m.PageSize
	if size <= 0 {
		size = n
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	if len(out) == 0 {
		out = append(out, [2]int{0, 0})
	}
	return out
}

func (m *MockAPIGateway) GetUsagePlansPagesWithContext(ctx aws.Context, in *apigateway.GetUsagePlansInput, fn func(*apigateway.GetUsagePlansOutput, bool) bool, opts ...request.Option) error {
	if m.PlansErr != nil {
		return m.PlansErr
	}
	pages := m.pages(len(m.Plans))
	for i, p := range pages {
		if !fn(&apigateway.GetUsagePlansOutput{Items: m.Plans[p[0]:p[1]]}, i == len(pages)-1) {
			break
		}
	}
	return nil
}

func (m *MockAPIGateway) GetUsagePlanKeysPagesWithContext(ctx aws.Context, in *apigateway.GetUsagePlanKeysInput, fn func(*apigateway.GetUsagePlanKeysOutput, bool) bool, opts ...request.Option) error {
	planID := aws.StringValue(in.UsagePlanId)
	if err := m.KeysErr[planID]; err != nil {
		return err
	}
	keys, ok := m.Keys[planID]
	if !ok {
		return fmt.Errorf("NotFoundException: usage plan '%s' does not exist", planID)
	}
	pages := m.pages(len(keys))
	for i, p := range pages {
		if !fn(&apigateway.GetUsagePlanKeysOutput{Items: keys[p[0]:p[1]]}, i == len(pages)-1) {
			break
		}
	}
	return nil
}

func (m *MockAPIGateway) GetUsagePagesWithContext(ctx aws.Context, in *apigateway.GetUsageInput, fn func(*apigateway.Usage, bool) bool, opts ...request.Option) error {
	m.mu.Lock()
	m.UsageInputs = append(m.UsageInputs, in)
	m.mu.Unlock()

	key := UsageKey(aws.StringValue(in.UsagePlanId), aws.StringValue(in.KeyId))
	if err := m.UsageErr[key]; err != nil {
		return err
	}
	fn(&apigateway.Usage{
		UsagePlanId: in.UsagePlanId,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Items:       m.Usage[key],
	}, true)
	return nil
}

// MockCloudWatch records published data and serves GetMetricData from a
// canned response.
type MockCloudWatch struct {
	cloudwatchiface.CloudWatchAPI

	mu         sync.Mutex
	Put        []*cloudwatch.PutMetricDataInput
	PutErr     error
	DataInputs []*cloudwatch.GetMetricDataInput
	// Pages of Values returned for the "usage" query.
	Pages   [][]float64
	DataErr error
}

func NewMockCloudWatch() *MockCloudWatch {
	return &MockCloudWatch{}
}

func (m *MockCloudWatch) PutMetricDataWithContext(ctx aws.Context, in *cloudwatch.PutMetricDataInput, opts ...request.Option) (*cloudwatch.PutMetricDataOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return nil, m.PutErr
	}
	m.Put = append(m.Put, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (m *MockCloudWatch) GetMetricDataPagesWithContext(ctx aws.Context, in *cloudwatch.GetMetricDataInput, fn func(*cloudwatch.GetMetricDataOutput, bool) bool, opts ...request.Option) error {
	m.mu.Lock()
	m.DataInputs = append(m.DataInputs, in)
	pages := m.Pages
	m.mu.Unlock()

	if m.DataErr != nil {
		return m.DataErr
	}
	if len(pages) == 0 {
		pages = [][]float64{nil}
	}
	for i, values := range pages {
		out := &cloudwatch.GetMetricDataOutput{
			MetricDataResults: []*cloudwatch.MetricDataResult{{
				Id:         aws.String("usage"),
				Label:      aws.String("usage"),
				StatusCode: aws.String(cloudwatch.StatusCodeComplete),
				Values:     aws.Float64Slice(values),
			}},
		}
		if !fn(out, i == len(pages)-1) {
			break
		}
	}
	return nil
}

func NewMockS3() *MockS3 {
	return &MockS3{
		buckets: map[string]map[string][]byte{},
	}
}

// MockS3 mimics an S3 blob store for testing.
type MockS3 struct {
	sync.RWMutex
	buckets map[string]map[string][]byte
	s3iface.S3API
}

func (m *MockS3) NewBucket(name string) {
	m.Lock()
	defer m.Unlock()
	m.buckets[name] = map[string][]byte{}
}

func (m *MockS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	data, err := ioutil.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()

	bucket, ok := m.buckets[*in.Bucket]
	if !ok {
		return nil, fmt.Errorf("NoSuchBucket: bucket '%s' does not exist", *in.Bucket)
	}

	bucket[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *MockS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	m.RLock()
	defer m.RUnlock()

	bucket, ok := m.buckets[*in.Bucket]
	if !ok {
		return nil, fmt.Errorf("bucket '%s' does not exist", *in.Bucket)
	}

	data, ok := bucket[*in.Key]
	if !ok {
		return nil, fmt.Errorf("key '%s' does not exist in bucket '%s'", *in.Key, *in.Bucket)
	}

	return &s3.GetObjectOutput{
		Body: ioutil.NopCloser(bytes.NewBuffer(data)),
	}, nil
}

// Keys returns the keys in the bucket with the given prefix, sorted.
func (m *MockS3) Keys(bucketName, prefix string) []string {
	m.RLock()
	defer m.RUnlock()

	var keys []string
	for key := range m.buckets[bucketName] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
