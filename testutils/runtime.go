package testutils

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"

	"go.viam.com/voxelops/logging"
)

// MainTestCase describes how to execute a main function and what
// to expect from it.
type MainTestCase struct {
	Name   string
	Args   []string
	Err    string
	Before func(t *testing.T, logger logging.Logger)
	After  func(t *testing.T, logs *observer.ObservedLogs)
}

// TestMain tests a main function with a series of test cases in serial. Each
// case gets its own observed logger; Args exclude the program name.
func TestMain(
	t *testing.T,
	mainWithArgs func(ctx context.Context, args []string, logger logging.Logger) error,
	tcs []MainTestCase,
) {
	t.Helper()
	for i, tc := range tcs {
		testCaseName := tc.Name
		if testCaseName == "" {
			testCaseName = fmt.Sprintf("%d", i)
		}
		t.Run(testCaseName, func(t *testing.T) {
			logger, logs := logging.NewObservedTestLogger(t)
			if tc.Before != nil {
				tc.Before(t, logger)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := mainWithArgs(ctx, append([]string{"main"}, tc.Args...), logger)
			if tc.Err == "" {
				test.That(t, err, test.ShouldBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, tc.Err)
			}
			if tc.After != nil {
				tc.After(t, logs)
			}
		})
	}
}
