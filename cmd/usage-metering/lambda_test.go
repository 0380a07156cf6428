package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunningInLambda(t *testing.T) {
	prev, had := os.LookupEnv(lambdaRuntimeAPIEnv)
	defer func() {
		if had {
			os.Setenv(lambdaRuntimeAPIEnv, prev)
		} else {
			os.Unsetenv(lambdaRuntimeAPIEnv)
		}
	}()

	os.Unsetenv(lambdaRuntimeAPIEnv)
	assert.False(t, runningInLambda(), "outside Lambda the root command prints help")

	os.Setenv(lambdaRuntimeAPIEnv, "127.0.0.1:9001")
	assert.True(t, runningInLambda(), "a bootstrap without arguments starts the Lambda handler")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "lambda", "serve"})
}
