package cli

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"go.viam.com/tapsense/logging"
)

func TestReadingsScheduler(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	calls := make(chan struct{}, 16)
	s, err := newReadingsScheduler(context.Background(), "20ms",
		func(ctx context.Context) (map[string]interface{}, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return map[string]interface{}{"dropped_taps": uint64(0)}, nil
		}, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, s.Shutdown(), test.ShouldBeNil)
	}()

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, logs.FilterMessage("readings").Len(), test.ShouldBeGreaterThan, 0)
	})
	test.That(t, len(calls), test.ShouldBeGreaterThan, 0)
}

func TestReadingsSchedulerErrors(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	s, err := newReadingsScheduler(context.Background(), "10ms",
		func(ctx context.Context) (map[string]interface{}, error) {
			return nil, errors.New("bus gone")
		}, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, s.Shutdown(), test.ShouldBeNil)
	}()
	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, logs.FilterMessage("unable to get readings").Len(), test.ShouldBeGreaterThan, 0)
	})

	_, err = newReadingsScheduler(context.Background(), "not a schedule", nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid readings schedule")

	_, err = newReadingsScheduler(context.Background(), "-1s", nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be positive")
}
