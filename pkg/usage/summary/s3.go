package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/operator-framework/usage-metering/pkg/usage"
)

// NewS3Store returns a Store writing to the given bucket below prefix.
func NewS3Store(api s3iface.S3API, bucket, prefix string) S3Store {
	return S3Store{
		Bucket: bucket,
		Prefix: prefix,
		s3:     api,
	}
}

// S3Store is an S3 backed Store.
type S3Store struct {
	Bucket string
	Prefix string
	s3     s3iface.S3API
}

// S3Store must implement the Store interface
var _ Store = S3Store{}

func (s S3Store) Write(ctx context.Context, summary *usage.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("could not encode run summary: %v", err)
	}

	key := s.Key(summary)
	_, err = s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to write run summary to 's3://%s/%s': %v", s.Bucket, key, err)
	}
	return nil
}

// Key returns the object key the summary is stored under.
func (s S3Store) Key(summary *usage.RunSummary) string {
	return path.Join(s.Prefix, Name(summary))
}
