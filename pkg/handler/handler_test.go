package handler

import (
	"context"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/usage-metering/pkg/usage"
)

type fakeRunner struct {
	summary *usage.RunSummary
	err     error
}

func (f fakeRunner) Run(ctx context.Context) (*usage.RunSummary, error) {
	return f.summary, f.err
}

type fakeStore struct {
	written []*usage.RunSummary
	err     error
}

func (f *fakeStore) Write(ctx context.Context, s *usage.RunSummary) error {
	f.written = append(f.written, s)
	return f.err
}

func TestHandle(t *testing.T) {
	runSummary := &usage.RunSummary{Plans: 2, Credentials: 3}

	tests := map[string]struct {
		runner       fakeRunner
		storeErr     error
		expected     Response
		expectErr    bool
		expectStored int
	}{
		"successful run": {
			runner:       fakeRunner{summary: runSummary},
			expected:     Response{StatusCode: 200, Body: SuccessMessage},
			expectStored: 1,
		},
		"store failure doesn't fail the run": {
			runner:       fakeRunner{summary: runSummary},
			storeErr:     errors.New("AccessDenied"),
			expected:     Response{StatusCode: 200, Body: SuccessMessage},
			expectStored: 1,
		},
		"failed run returns the error": {
			runner:       fakeRunner{summary: runSummary, err: errors.New("failed to list usage plans: throttled")},
			expected:     Response{StatusCode: 500, Body: "failed to list usage plans: throttled"},
			expectErr:    true,
			expectStored: 1,
		},
		"failed run without summary": {
			runner:    fakeRunner{err: errors.New("boom")},
			expected:  Response{StatusCode: 500, Body: "boom"},
			expectErr: true,
		},
	}

	for testName, tt := range tests {
		testName := testName
		tt := tt
		t.Run(testName, func(t *testing.T) {
			logger, _ := logtest.NewNullLogger()
			store := &fakeStore{err: tt.storeErr}
			h := New(logger, tt.runner, store)

			resp, err := h.Handle(context.Background(), []byte(`{"source":"aws.events"}`))
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, resp)
			assert.Len(t, store.written, tt.expectStored)
		})
	}
}

func TestHandleWithoutStore(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	h := New(logger, fakeRunner{summary: &usage.RunSummary{}}, nil)
	resp, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
