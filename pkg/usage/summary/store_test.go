package summary

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/usage-metering/pkg/aws/awstest"
	"github.com/operator-framework/usage-metering/pkg/usage"
)

func testSummary() *usage.RunSummary {
	now := time.Date(2020, 3, 10, 14, 5, 0, 0, time.UTC)
	return &usage.RunSummary{
		Window:      usage.HourWindow(now, usage.DefaultLookback),
		StartedAt:   now,
		FinishedAt:  now.Add(time.Second),
		Plans:       1,
		Credentials: 1,
		Results: []usage.CredentialResult{{
			PlanName:       "gold",
			CredentialName: "customer-a",
			Outcome:        usage.OutcomeDeltaPublished,
			Current:        150,
			Previous:       100,
			PreviousStatus: usage.LookupFound,
			Delta:          50,
		}},
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "2020/03/10/1583845200.json", Name(testSummary()))
}

func TestFileStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "usage-summary")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := NewFileStore(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	summary := testSummary()
	require.NoError(t, store.Write(context.Background(), summary))

	data, err := ioutil.ReadFile(store.Path(summary))
	require.NoError(t, err)

	var decoded usage.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.Results, decoded.Results)
	assert.True(t, summary.Window.Hour.Start.Equal(decoded.Window.Hour.Start))
}

func TestNewFileStoreOnFile(t *testing.T) {
	f, err := ioutil.TempFile("", "usage-summary")
	require.NoError(t, err)
	f.Close()
	defer os.Remove(f.Name())

	_, err = NewFileStore(f.Name())
	assert.Error(t, err)
}

func TestS3Store(t *testing.T) {
	api := awstest.NewMockS3()
	api.NewBucket("metering")

	store := NewS3Store(api, "metering", "summaries/prod")
	summary := testSummary()
	require.NoError(t, store.Write(context.Background(), summary))

	assert.Equal(t, []string{"summaries/prod/2020/03/10/1583845200.json"}, api.Keys("metering", "summaries/"))

	out, err := api.GetObjectWithContext(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String("metering"),
		Key:    aws.String(store.Key(summary)),
	})
	require.NoError(t, err)
	var decoded usage.RunSummary
	require.NoError(t, json.NewDecoder(out.Body).Decode(&decoded))
	assert.Equal(t, 50, int(decoded.Results[0].Delta))
}

func TestS3StoreMissingBucket(t *testing.T) {
	store := NewS3Store(awstest.NewMockS3(), "missing", "")
	err := store.Write(context.Background(), testSummary())
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "usage-summary")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	tests := map[string]struct {
		url         string
		expectNil   bool
		expectErr   bool
		expectedS3  *S3Store
		expectLocal bool
	}{
		"empty disables the store": {
			url:       "",
			expectNil: true,
		},
		"s3 bucket and prefix": {
			url:        "s3://metering/summaries",
			expectedS3: &S3Store{Bucket: "metering", Prefix: "summaries"},
		},
		"s3 without bucket": {
			url:       "s3:///summaries",
			expectErr: true,
		},
		"local directory": {
			url:         "file://" + dir,
			expectLocal: true,
		},
		"unknown scheme": {
			url:       "gs://bucket/path",
			expectErr: true,
		},
	}

	for testName, tt := range tests {
		testName := testName
		tt := tt
		t.Run(testName, func(t *testing.T) {
			store, err := NewStore(tt.url, awstest.NewMockS3())
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, store)
				return
			}
			if tt.expectedS3 != nil {
				s3Store, ok := store.(S3Store)
				require.True(t, ok, "expected an S3Store")
				assert.Equal(t, tt.expectedS3.Bucket, s3Store.Bucket)
				assert.Equal(t, tt.expectedS3.Prefix, s3Store.Prefix)
			}
			if tt.expectLocal {
				_, ok := store.(FileStore)
				assert.True(t, ok, "expected a FileStore")
			}
		})
	}
}
