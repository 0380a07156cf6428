package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Clients holds the AWS service clients used to meter usage plans.
type Clients struct {
	Session    *session.Session
	APIGateway *apigateway.APIGateway
	CloudWatch *cloudwatch.CloudWatch
	S3         *s3.S3
}

// NewClients creates the service clients from the default credential chain.
// An empty region falls back to the SDK's environment and shared config.
func NewClients(region string) (*Clients, error) {
	awsSession, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create AWS session: %v", err)
	}
	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	return &Clients{
		Session:    awsSession,
		APIGateway: apigateway.New(awsSession, cfg),
		CloudWatch: cloudwatch.New(awsSession, cfg),
		S3:         s3.New(awsSession, cfg),
	}, nil
}
