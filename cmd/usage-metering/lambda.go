package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// lambdaRuntimeAPIEnv is set by the Lambda runtime, including for custom
// runtimes whose bootstrap runs the binary without arguments.
const lambdaRuntimeAPIEnv = "AWS_LAMBDA_RUNTIME_API"

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "runs as an AWS Lambda function triggered by an hourly schedule",
	RunE:  startLambda,
}

func runningInLambda() bool {
	return os.Getenv(lambdaRuntimeAPIEnv) != ""
}

func startLambda(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	h, err := newHandler(logger, driverRunner)
	if err != nil {
		return err
	}
	logger.Infof("starting Lambda handler")
	lambda.Start(h.Handle)
	return nil
}
